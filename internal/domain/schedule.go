package domain

import (
	"fmt"
	"time"

	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// WeeklyRule еженедельное правило рабочих часов.
// EmployeeID == nil — правило уровня бизнеса; иначе правило конкретного сотрудника
// (структурно правила идентичны и хранятся в одной таблице).
// Для одного дня недели допустимо несколько правил (раздельные смены).
type WeeklyRule struct {
	ID         int64
	BusinessID int64
	EmployeeID *int64

	DayOfWeek   int // 0 = воскресенье ... 6 = суббота
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool

	Breaks []Break

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты правила: startTime < endTime при isAvailable,
// перерывы строго внутри окна правила.
func (r *WeeklyRule) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("dayOfWeek must be between 0 and 6, got %d", r.DayOfWeek)
	}

	if !r.IsAvailable {
		return nil
	}

	if err := r.StartTime.Validate(); err != nil {
		return fmt.Errorf("invalid startTime: %v", err)
	}
	if err := r.EndTime.Validate(); err != nil {
		return fmt.Errorf("invalid endTime: %v", err)
	}
	if !r.StartTime.IsBefore(r.EndTime) {
		return fmt.Errorf("startTime %s must be before endTime %s", r.StartTime, r.EndTime)
	}

	for _, b := range r.Breaks {
		if err := b.ValidateWithin(r.StartTime, r.EndTime); err != nil {
			return err
		}
	}

	return nil
}

// Break перерыв внутри окна одного правила
type Break struct {
	ID     int64
	RuleID int64

	StartTime types.TimeString
	EndTime   types.TimeString
}

// ValidateWithin проверяет, что перерыв лежит строго внутри окна [start, end)
func (b *Break) ValidateWithin(start, end types.TimeString) error {
	if err := b.StartTime.Validate(); err != nil {
		return fmt.Errorf("invalid break startTime: %v", err)
	}
	if err := b.EndTime.Validate(); err != nil {
		return fmt.Errorf("invalid break endTime: %v", err)
	}
	if !b.StartTime.IsBefore(b.EndTime) {
		return fmt.Errorf("break startTime %s must be before endTime %s", b.StartTime, b.EndTime)
	}
	if b.StartTime.IsBefore(start) || b.EndTime.IsAfter(end) {
		return fmt.Errorf("break %s-%s must lie within working window %s-%s", b.StartTime, b.EndTime, start, end)
	}
	return nil
}

// SpecialDate переопределение расписания на конкретную календарную дату.
// Имеет приоритет над всеми еженедельными правилами этой даты.
// EmployeeID == nil — уровень бизнеса, иначе уровень сотрудника.
type SpecialDate struct {
	ID         int64
	BusinessID int64
	EmployeeID *int64

	Date        time.Time
	IsAvailable bool
	StartTime   *types.TimeString // nil при isAvailable=true означает "часы по еженедельному правилу"
	EndTime     *types.TimeString
	Reason      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCustomHours проверяет, задаёт ли особая дата собственные рабочие часы
func (s *SpecialDate) HasCustomHours() bool {
	return s.StartTime != nil && s.EndTime != nil
}

// ScheduleSet снапшот расписания одной области (бизнес или один сотрудник)
// на момент вызова движка
type ScheduleSet struct {
	Rules        []*WeeklyRule
	SpecialDates []*SpecialDate
}

// IsEmpty проверяет, что область не содержит никакой кастомизации.
// Пустой набор сотрудника означает "наследовать расписание бизнеса".
func (s *ScheduleSet) IsEmpty() bool {
	return s == nil || (len(s.Rules) == 0 && len(s.SpecialDates) == 0)
}

// RulesForDay возвращает правила на день недели (0 = воскресенье)
func (s *ScheduleSet) RulesForDay(dayOfWeek int) []*WeeklyRule {
	if s == nil {
		return nil
	}
	var rules []*WeeklyRule
	for _, r := range s.Rules {
		if r.DayOfWeek == dayOfWeek {
			rules = append(rules, r)
		}
	}
	return rules
}

// SpecialFor возвращает особую дату для календарной даты, если она задана
func (s *ScheduleSet) SpecialFor(date time.Time) *SpecialDate {
	if s == nil {
		return nil
	}
	y, m, d := date.Date()
	for _, sd := range s.SpecialDates {
		sy, sm, sdd := sd.Date.Date()
		if sy == y && sm == m && sdd == d {
			return sd
		}
	}
	return nil
}
