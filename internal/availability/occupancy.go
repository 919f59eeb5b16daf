package availability

import (
	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Slot кандидат, аннотированный занятостью
type Slot struct {
	Start types.TimeString
	End   types.TimeString

	Available bool

	// SpotsLeft оставшиеся места. nil для режима single и для бизнесов
	// без отслеживаемой вместимости (безлимит).
	SpotsLeft *int

	// IsPast слот начинается не позже текущего момента в таймзоне бизнеса
	IsPast bool
}

// OccupancyParams параметры аннотации кандидатов занятостью
type OccupancyParams struct {
	CapacityMode domain.CapacityMode

	// Capacity вместимость слота. nil = безлимит (вместимость не отслеживается).
	Capacity *int

	// Appointments записи на эту дату; неблокирующие статусы отфильтровываются здесь
	Appointments []*domain.Appointment

	// Now текущее время в таймзоне бизнеса; учитывается только при DateIsToday
	Now types.TimeString

	// DateIsToday дата расчёта совпадает с сегодняшней в таймзоне бизнеса
	DateIsToday bool

	// DateInPast дата расчёта целиком в прошлом
	DateInPast bool

	// AllowPastSlots не помечать прошедшие слоты недоступными
	// (ручное бронирование бизнесом задним числом)
	AllowPastSlots bool

	// EarliestStart минимальное допустимое время начала слота с учётом
	// minBookingNoticeMinutes; nil = без ограничения
	EarliestStart *types.TimeString
}

// Annotate аннотирует кандидатов занятостью и прошедшим временем.
// Слоты возвращаются в исходном (хронологическом) порядке.
func Annotate(candidates []Candidate, p OccupancyParams) []Slot {
	blocking := filterBlocking(p.Appointments)

	slots := make([]Slot, len(candidates))
	for i, c := range candidates {
		slot := Slot{
			Start:     c.Start,
			End:       c.End,
			Available: true,
		}

		// 1. Занятость: считаем блокирующие записи, пересекающие кандидата
		count := countOverlapping(c.Start, c.End, blocking)

		switch {
		case p.Capacity == nil:
			// Вместимость не отслеживается: слот всегда открыт по занятости,
			// spotsLeft не сообщается
		case p.CapacityMode == domain.CapacityModeSingle:
			if count > 0 {
				slot.Available = false
			}
		default:
			left := *p.Capacity - count
			if left < 0 {
				left = 0
			}
			slot.SpotsLeft = &left
			if count >= *p.Capacity {
				slot.Available = false
			}
		}

		// 2. Прошедшее время: слот, начинающийся не позже "сейчас" в таймзоне
		// бизнеса, недоступен для публичной записи
		if !p.AllowPastSlots {
			if p.DateInPast || (p.DateIsToday && !c.Start.IsAfter(p.Now)) {
				slot.IsPast = true
				slot.Available = false
			}

			// 3. Минимальное время до записи (если настроено)
			if slot.Available && p.EarliestStart != nil && p.DateIsToday && c.Start.IsBefore(*p.EarliestStart) {
				slot.Available = false
			}
		}

		slots[i] = slot
	}

	return slots
}

// countOverlapping считает блокирующие записи, пересекающие интервал [start, end).
// Полуинтервалы: запись, заканчивающаяся ровно в start (или начинающаяся ровно
// в end), пересечением не считается.
func countOverlapping(start, end types.TimeString, appointments []*domain.Appointment) int {
	count := 0

	for _, a := range appointments {
		aEnd, err := a.EndTime()
		if err != nil {
			continue
		}

		if a.StartTime.IsBefore(end) && aEnd.IsAfter(start) {
			count++
		}
	}

	return count
}

// filterBlocking отбирает записи, занимающие вместимость
func filterBlocking(appointments []*domain.Appointment) []*domain.Appointment {
	blocking := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.IsBlocking() {
			blocking = append(blocking, a)
		}
	}
	return blocking
}
