package models

import (
	"fmt"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Request модели

// GetScheduleRequest запрос на получение расписания области
type GetScheduleRequest struct {
	BusinessID int64  `json:"businessId"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
}

// ReplaceScheduleRequest запрос на полную замену еженедельного расписания области
type ReplaceScheduleRequest struct {
	UserID     int64        `json:"userId"`
	BusinessID int64        `json:"businessId"`
	EmployeeID *int64       `json:"employeeId,omitempty"`
	Rules      []WeeklyRule `json:"rules"`
}

// WeeklyRule еженедельное правило в запросе/ответе
type WeeklyRule struct {
	DayOfWeek   int              `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	IsAvailable bool             `json:"isAvailable"`
	Breaks      []Break          `json:"breaks,omitempty"`
}

// Break перерыв в запросе/ответе
type Break struct {
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}

// CreateSpecialDateRequest запрос на создание особой даты
type CreateSpecialDateRequest struct {
	UserID      int64             `json:"userId"`
	BusinessID  int64             `json:"businessId"`
	EmployeeID  *int64            `json:"employeeId,omitempty"`
	Date        string            `json:"date"` // YYYY-MM-DD
	IsAvailable bool              `json:"isAvailable"`
	StartTime   *types.TimeString `json:"startTime,omitempty"`
	EndTime     *types.TimeString `json:"endTime,omitempty"`
	Reason      *string           `json:"reason,omitempty"`
}

// ToDomain конвертирует запрос в domain модель с валидацией
func (r *CreateSpecialDateRequest) ToDomain() (*domain.SpecialDate, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date must be in YYYY-MM-DD format")
	}

	// Часы задаются либо оба, либо никакие
	if (r.StartTime == nil) != (r.EndTime == nil) {
		return nil, fmt.Errorf("startTime and endTime must be set together")
	}

	if r.StartTime != nil {
		if err := r.StartTime.Validate(); err != nil {
			return nil, fmt.Errorf("invalid startTime: %v", err)
		}
		if err := r.EndTime.Validate(); err != nil {
			return nil, fmt.Errorf("invalid endTime: %v", err)
		}
		if !r.StartTime.IsBefore(*r.EndTime) {
			return nil, fmt.Errorf("startTime must be before endTime")
		}
	}

	// Собственные часы имеют смысл только у открытой особой даты
	if !r.IsAvailable && r.StartTime != nil {
		return nil, fmt.Errorf("closed special date must not define working hours")
	}

	if r.Reason != nil && len(*r.Reason) > domain.MaxSpecialDateReasonLength {
		return nil, fmt.Errorf("reason must be at most %d characters", domain.MaxSpecialDateReasonLength)
	}

	return &domain.SpecialDate{
		BusinessID:  r.BusinessID,
		EmployeeID:  r.EmployeeID,
		Date:        date,
		IsAvailable: r.IsAvailable,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Reason:      r.Reason,
	}, nil
}

// Response модели

// ScheduleResponse ответ с расписанием области
type ScheduleResponse struct {
	BusinessID   int64         `json:"businessId"`
	EmployeeID   *int64        `json:"employeeId,omitempty"`
	Rules        []WeeklyRule  `json:"rules"`
	SpecialDates []SpecialDate `json:"specialDates"`
}

// SpecialDate особая дата в ответе
type SpecialDate struct {
	ID          int64             `json:"id"`
	Date        string            `json:"date"`
	IsAvailable bool              `json:"isAvailable"`
	StartTime   *types.TimeString `json:"startTime,omitempty"`
	EndTime     *types.TimeString `json:"endTime,omitempty"`
	Reason      *string           `json:"reason,omitempty"`
}

// SpecialDateResponse ответ с созданной особой датой
type SpecialDateResponse struct {
	ID          int64             `json:"id"`
	BusinessID  int64             `json:"businessId"`
	EmployeeID  *int64            `json:"employeeId,omitempty"`
	Date        string            `json:"date"`
	IsAvailable bool              `json:"isAvailable"`
	StartTime   *types.TimeString `json:"startTime,omitempty"`
	EndTime     *types.TimeString `json:"endTime,omitempty"`
	Reason      *string           `json:"reason,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Методы конвертации

// ToDomainRules конвертирует правила запроса в domain модели с валидацией
func ToDomainRules(businessID int64, employeeID *int64, rules []WeeklyRule) ([]*domain.WeeklyRule, error) {
	domainRules := make([]*domain.WeeklyRule, 0, len(rules))

	for i, r := range rules {
		rule := &domain.WeeklyRule{
			BusinessID:  businessID,
			EmployeeID:  employeeID,
			DayOfWeek:   r.DayOfWeek,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsAvailable: r.IsAvailable,
		}

		for _, b := range r.Breaks {
			rule.Breaks = append(rule.Breaks, domain.Break{
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
			})
		}

		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %v", i, err)
		}

		domainRules = append(domainRules, rule)
	}

	return domainRules, nil
}

// FromDomainScheduleSet конвертирует снапшот расписания в DTO
func FromDomainScheduleSet(businessID int64, employeeID *int64, set *domain.ScheduleSet) *ScheduleResponse {
	resp := &ScheduleResponse{
		BusinessID:   businessID,
		EmployeeID:   employeeID,
		Rules:        make([]WeeklyRule, 0, len(set.Rules)),
		SpecialDates: make([]SpecialDate, 0, len(set.SpecialDates)),
	}

	for _, rule := range set.Rules {
		r := WeeklyRule{
			DayOfWeek:   rule.DayOfWeek,
			StartTime:   rule.StartTime,
			EndTime:     rule.EndTime,
			IsAvailable: rule.IsAvailable,
		}
		for _, b := range rule.Breaks {
			r.Breaks = append(r.Breaks, Break{StartTime: b.StartTime, EndTime: b.EndTime})
		}
		resp.Rules = append(resp.Rules, r)
	}

	for _, sd := range set.SpecialDates {
		resp.SpecialDates = append(resp.SpecialDates, SpecialDate{
			ID:          sd.ID,
			Date:        sd.Date.Format(domain.DateFormat),
			IsAvailable: sd.IsAvailable,
			StartTime:   sd.StartTime,
			EndTime:     sd.EndTime,
			Reason:      sd.Reason,
		})
	}

	return resp
}

// FromDomainSpecialDate конвертирует особую дату в DTO
func FromDomainSpecialDate(sd *domain.SpecialDate) *SpecialDateResponse {
	return &SpecialDateResponse{
		ID:          sd.ID,
		BusinessID:  sd.BusinessID,
		EmployeeID:  sd.EmployeeID,
		Date:        sd.Date.Format(domain.DateFormat),
		IsAvailable: sd.IsAvailable,
		StartTime:   sd.StartTime,
		EndTime:     sd.EndTime,
		Reason:      sd.Reason,
		CreatedAt:   sd.CreatedAt,
	}
}
