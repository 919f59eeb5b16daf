// Package availability движок расчёта доступных слотов: чистое, детерминированное
// вычисление без ввода-вывода и внутреннего состояния. Все данные (правила,
// особые даты, записи) передаются снапшотом, текущий момент — явным параметром.
package availability

import (
	"sync"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// DayParams входные данные расчёта одного дня
type DayParams struct {
	Business *domain.Business
	Service  *domain.Service
	Scope    Scope

	// Appointments записи бизнеса/сотрудника на эту дату
	Appointments []*domain.Appointment

	// Date календарная дата расчёта (полночь в таймзоне бизнеса)
	Date time.Time

	// Now текущий момент в таймзоне бизнеса
	Now time.Time

	// AllowPastSlots разрешить прошедшие слоты (ручное бронирование бизнесом)
	AllowPastSlots bool
}

// DayResult результат расчёта доступности одного дня
type DayResult struct {
	Date time.Time

	Available bool
	Reason    string // причина при Available=false

	WorkingHours []Window
	Breaks       []Window
	CapacityMode domain.CapacityMode

	TotalSlots int
	Slots      []Slot
}

// ComputeDay рассчитывает доступные слоты на одну дату.
// Детерминированно: одинаковые входные данные дают одинаковый результат.
func ComputeDay(p DayParams) *DayResult {
	result := &DayResult{
		Date:         p.Date,
		CapacityMode: p.Business.CapacityMode,
		Slots:        []Slot{},
	}

	dateInPast := isDateBefore(p.Date, p.Now)

	// 1. Дата целиком в прошлом недоступна для публичной записи
	if dateInPast && !p.AllowPastSlots {
		result.Reason = ReasonPastDate
		return result
	}

	// 2. Резолвим эффективные окна (особая дата > правила сотрудника или бизнеса)
	resolution := ResolveWindows(p.Scope, p.Date)
	if !resolution.Open {
		result.Reason = resolution.Reason
		return result
	}

	result.WorkingHours = resolution.WorkingHours
	result.Breaks = resolution.Breaks

	// 3. Генерируем кандидатов слотов
	step := p.Business.SlotIntervalFor(p.Service)
	candidates := GenerateSlots(resolution.Windows, p.Service.DurationMinutes, step)

	// Услуга не помещается ни в одно окно — день недоступен, но это не ошибка
	if len(candidates) == 0 {
		result.Reason = ReasonNoFittingWindow
		return result
	}

	// 4. Аннотируем занятостью и прошедшим временем
	occupancy := OccupancyParams{
		CapacityMode:   p.Business.CapacityMode,
		Capacity:       p.Business.CapacityFor(p.Service),
		Appointments:   p.Appointments,
		Now:            types.NewTimeString(p.Now),
		DateIsToday:    isSameDay(p.Date, p.Now),
		DateInPast:     dateInPast,
		AllowPastSlots: p.AllowPastSlots,
		EarliestStart:  earliestStart(p.Business, p.Now),
	}

	result.Available = true
	result.Slots = Annotate(candidates, occupancy)
	result.TotalSlots = len(result.Slots)

	return result
}

// RangeParams входные данные расчёта диапазона дат
type RangeParams struct {
	Business *domain.Business
	Service  *domain.Service
	Scope    Scope

	// AppointmentsByDate записи, сгруппированные по дате (ключ в формате DateFormat)
	AppointmentsByDate map[string][]*domain.Appointment

	// StartDate, EndDate включительный диапазон дат в таймзоне бизнеса
	StartDate time.Time
	EndDate   time.Time

	Now            time.Time
	AllowPastSlots bool

	// Parallelism размер пула воркеров; <=1 — последовательный расчёт.
	// Дни независимы, общего изменяемого состояния нет.
	Parallelism int
}

// ComputeRange рассчитывает доступность каждого дня диапазона включительно.
// Результаты идут в порядке дат. Междневного состояния нет, поэтому дни
// считаются параллельно ограниченным пулом воркеров.
func ComputeRange(p RangeParams) []*DayResult {
	days := rangeDays(p.StartDate, p.EndDate)
	results := make([]*DayResult, len(days))

	dayParams := func(date time.Time) DayParams {
		return DayParams{
			Business:       p.Business,
			Service:        p.Service,
			Scope:          p.Scope,
			Appointments:   p.AppointmentsByDate[date.Format(domain.DateFormat)],
			Date:           date,
			Now:            p.Now,
			AllowPastSlots: p.AllowPastSlots,
		}
	}

	if p.Parallelism <= 1 || len(days) <= 1 {
		for i, date := range days {
			results[i] = ComputeDay(dayParams(date))
		}
		return results
	}

	workers := p.Parallelism
	if workers > len(days) {
		workers = len(days)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = ComputeDay(dayParams(days[i]))
			}
		}()
	}

	for i := range days {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

// earliestStart возвращает минимально допустимое время начала слота сегодня
// с учётом minBookingNoticeMinutes; nil при отсутствии ограничения
func earliestStart(business *domain.Business, now time.Time) *types.TimeString {
	notice := business.Settings.MinBookingNoticeMinutes
	if notice <= 0 {
		return nil
	}

	threshold, err := types.NewTimeString(now).AddMinutes(notice)
	if err != nil {
		// Порог ушёл за полночь — сегодня записаться уже нельзя
		endOfDay := types.TimeString("24:00")
		return &endOfDay
	}
	return &threshold
}

// rangeDays перечисляет календарные даты диапазона включительно
func rangeDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := truncateToDay(start); !d.After(truncateToDay(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isSameDay проверяет, что обе даты относятся к одному календарному дню
func isSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateBefore проверяет, что дата date раньше дня, в котором находится now
func isDateBefore(date, now time.Time) bool {
	return truncateToDay(date).Before(truncateToDay(now))
}
