package cancel_appointment

// CancelAppointmentRequest HTTP модель запроса на отмену записи
type CancelAppointmentRequest struct {
	CancellationReason string `json:"cancellationReason"`
}
