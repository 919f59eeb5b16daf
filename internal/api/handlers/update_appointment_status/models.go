package update_appointment_status

// UpdateStatusRequest HTTP модель запроса на обновление статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
