package create_appointment

import (
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID     int64            // ID пользователя из заголовка аутентификации
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	EmployeeID *int64           // ID сотрудника (опционально)
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)

	// AllowPastSlots разрешить запись на прошедшее время.
	// Действует только когда запрос делает владелец бизнеса (ручная запись
	// задним числом); для остальных игнорируется.
	AllowPastSlots bool
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"userId"`
	BusinessID      int64            `json:"businessId"`
	ServiceID       int64            `json:"serviceId"`
	EmployeeID      *int64           `json:"employeeId,omitempty"`
	Date            string           `json:"date"`
	StartTime       types.TimeString `json:"startTime"`
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`

	// Денормализованные данные услуги
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`

	// SpotsLeft остаток мест после создания записи (только multiple)
	SpotsLeft *int    `json:"spotsLeft,omitempty"`
	Notes     *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// buildResponse конвертирует созданную запись в модель ответа
func buildResponse(appointment *domain.Appointment, spotsLeft *int) *Response {
	return &Response{
		ID:              appointment.ID,
		UserID:          appointment.UserID,
		BusinessID:      appointment.BusinessID,
		ServiceID:       appointment.ServiceID,
		EmployeeID:      appointment.EmployeeID,
		Date:            appointment.Date.Format(domain.DateFormat),
		StartTime:       appointment.StartTime,
		DurationMinutes: appointment.DurationMinutes,
		Status:          string(appointment.Status),
		ServiceName:     appointment.ServiceName,
		ServicePrice:    appointment.ServicePrice,
		SpotsLeft:       spotsLeft,
		Notes:           appointment.Notes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
}
