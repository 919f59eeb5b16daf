package get_day_availability

import (
	"time"

	"github.com/termini-mk/AvailabilityService/internal/availability"
	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Request модель запроса доступности на одну дату
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	EmployeeID *int64    // ID сотрудника (опционально)
	Date       time.Time // Дата расчёта (без времени)

	// AllowPastSlots не отфильтровывать прошедшие слоты.
	// Используется защищённым превью для ручного бронирования бизнесом;
	// доступно только владельцу (проверяется по UserID).
	AllowPastSlots bool

	// UserID ID аутентифицированного пользователя; 0 для публичных запросов
	UserID int64
}

// Response модель ответа с доступностью дня
type Response struct {
	Date       string `json:"date"`
	BusinessID int64  `json:"businessId"`
	ServiceID  int64  `json:"serviceId"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
	Timezone   string `json:"timezone"`

	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`

	CapacityMode string   `json:"capacityMode"`
	WorkingHours []Window `json:"workingHours,omitempty"`
	Breaks       []Window `json:"breaks,omitempty"`

	TotalSlots int    `json:"totalSlots"`
	Slots      []Slot `json:"slots"`
}

// Window рабочее окно или перерыв в ответе
type Window struct {
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// Slot слот в ответе
type Slot struct {
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Available bool             `json:"available"`
	SpotsLeft *int             `json:"spotsLeft,omitempty"`
	IsPast    bool             `json:"isPast,omitempty"`
}

// buildResponse конвертирует результат движка в модель ответа
func buildResponse(req *Request, business *domain.Business, result *availability.DayResult) *Response {
	resp := &Response{
		Date:         result.Date.Format(domain.DateFormat),
		BusinessID:   req.BusinessID,
		ServiceID:    req.ServiceID,
		EmployeeID:   req.EmployeeID,
		Timezone:     business.Timezone,
		Available:    result.Available,
		Reason:       result.Reason,
		CapacityMode: string(result.CapacityMode),
		TotalSlots:   result.TotalSlots,
		Slots:        make([]Slot, 0, len(result.Slots)),
	}

	if resp.Timezone == "" {
		resp.Timezone = domain.DefaultTimezone
	}

	for _, w := range result.WorkingHours {
		resp.WorkingHours = append(resp.WorkingHours, Window{StartTime: w.Start, EndTime: w.End})
	}
	for _, b := range result.Breaks {
		resp.Breaks = append(resp.Breaks, Window{StartTime: b.Start, EndTime: b.End})
	}

	for _, s := range result.Slots {
		resp.Slots = append(resp.Slots, Slot{
			StartTime: s.Start,
			EndTime:   s.End,
			Available: s.Available,
			SpotsLeft: s.SpotsLeft,
			IsPast:    s.IsPast,
		})
	}

	return resp
}
