package get_range_availability

import (
	"time"

	"github.com/termini-mk/AvailabilityService/internal/availability"
	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Request модель запроса доступности на диапазон дат
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	EmployeeID *int64    // ID сотрудника (опционально)
	StartDate  time.Time // Начало диапазона (включительно)
	EndDate    time.Time // Конец диапазона (включительно)
}

// Response модель ответа с доступностью по дням диапазона
type Response struct {
	BusinessID int64  `json:"businessId"`
	ServiceID  int64  `json:"serviceId"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
	Timezone   string `json:"timezone"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	Days []Day `json:"days"`
}

// Day доступность одного дня диапазона
type Day struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`

	TotalSlots     int `json:"totalSlots"`
	AvailableSlots int `json:"availableSlots"`

	Slots []Slot `json:"slots"`
}

// Slot слот в ответе
type Slot struct {
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Available bool             `json:"available"`
	SpotsLeft *int             `json:"spotsLeft,omitempty"`
	IsPast    bool             `json:"isPast,omitempty"`
}

// buildResponse конвертирует результаты движка в модель ответа
func buildResponse(req *Request, business *domain.Business, results []*availability.DayResult) *Response {
	resp := &Response{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		Timezone:   business.Timezone,
		StartDate:  req.StartDate.Format(domain.DateFormat),
		EndDate:    req.EndDate.Format(domain.DateFormat),
		Days:       make([]Day, 0, len(results)),
	}

	if resp.Timezone == "" {
		resp.Timezone = domain.DefaultTimezone
	}

	for _, result := range results {
		day := Day{
			Date:       result.Date.Format(domain.DateFormat),
			Available:  result.Available,
			Reason:     result.Reason,
			TotalSlots: result.TotalSlots,
			Slots:      make([]Slot, 0, len(result.Slots)),
		}

		for _, s := range result.Slots {
			if s.Available {
				day.AvailableSlots++
			}
			day.Slots = append(day.Slots, Slot{
				StartTime: s.Start,
				EndTime:   s.End,
				Available: s.Available,
				SpotsLeft: s.SpotsLeft,
				IsPast:    s.IsPast,
			})
		}

		resp.Days = append(resp.Days, day)
	}

	return resp
}
