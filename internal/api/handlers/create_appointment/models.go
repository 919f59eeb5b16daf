package create_appointment

import (
	"fmt"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	createAppointment "github.com/termini-mk/AvailabilityService/internal/usecase/create_appointment"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// CreateAppointmentRequest HTTP модель запроса на создание записи
type CreateAppointmentRequest struct {
	BusinessID int64   `json:"businessId"`
	ServiceID  int64   `json:"serviceId"`
	EmployeeID *int64  `json:"employeeId,omitempty"`
	Date       string  `json:"date"`      // YYYY-MM-DD
	StartTime  string  `json:"startTime"` // HH:MM или HH:MM:SS
	Notes      *string `json:"notes,omitempty"`

	// AllowPastSlots ручная запись на прошедшее время (только владелец бизнеса)
	AllowPastSlots bool `json:"allowPastSlots,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %v", err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %v", err)
	}

	return &createAppointment.Request{
		UserID:         userID,
		BusinessID:     r.BusinessID,
		ServiceID:      r.ServiceID,
		EmployeeID:     r.EmployeeID,
		Date:           date,
		StartTime:      startTime,
		Notes:          r.Notes,
		AllowPastSlots: r.AllowPastSlots,
	}, nil
}
