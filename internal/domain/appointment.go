package domain

import (
	"time"

	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment запись клиента на услугу
type Appointment struct {
	ID              int64
	BusinessID      int64
	ServiceID       int64
	EmployeeID      *int64 // nil = запись без привязки к сотруднику
	UserID          int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Денормализованные данные услуги для истории
	ServiceName  string
	ServicePrice float64

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime возвращает время окончания записи
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// IsBlocking проверяет, занимает ли запись вместимость слота.
// Отменённые записи и неявки слот не занимают.
func (a *Appointment) IsBlocking() bool {
	for _, s := range BlockingStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// CanBeCancelled проверяет, может ли запись быть отменена
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled проверяет, отменена ли запись
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// BusinessAppointmentsFilter фильтр для выборки записей бизнеса
type BusinessAppointmentsFilter struct {
	BusinessID   int64              // Обязательный параметр
	EmployeeID   *int64             // Фильтр по сотруднику (опционально)
	StartDate    *time.Time         // Начало периода (опционально)
	EndDate      *time.Time         // Конец периода (опционально)
	Status       *AppointmentStatus // Фильтр по статусу (опционально)
	OnlyBlocking bool               // Только записи, занимающие вместимость
}
