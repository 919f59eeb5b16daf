package availability

import (
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Outcome исход проверки запрошенного слота при создании записи
type Outcome int

const (
	// OutcomeOK слот открыт и может быть забронирован
	OutcomeOK Outcome = iota

	// OutcomeClosed область закрыта на эту дату, либо слот вне рабочих окон
	OutcomeClosed

	// OutcomeConflict вместимость слота исчерпана
	OutcomeConflict

	// OutcomePastSlot начало слота не позже текущего момента
	OutcomePastSlot

	// OutcomeMisaligned начало слота не лежит на сетке шага генерации
	OutcomeMisaligned
)

// ValidateParams параметры проверки одного запрошенного слота
type ValidateParams struct {
	Business *domain.Business
	Service  *domain.Service
	Scope    Scope

	// Appointments актуальные записи на дату; при вызове из write-path
	// должны быть прочитаны в той же транзакции, что и последующая вставка
	Appointments []*domain.Appointment

	Date      time.Time
	StartTime types.TimeString

	Now            time.Time
	AllowPastSlots bool
}

// ValidationResult результат проверки слота
type ValidationResult struct {
	Outcome Outcome
	Reason  string

	// SpotsLeft остаток мест до вставки создаваемой записи
	// (только multiple с отслеживаемой вместимостью)
	SpotsLeft *int
}

// ValidateSlot заново выводит эффективные окна и занятость для одного
// запрошенного слота. Кэшированным спискам слотов не доверяем: клиентский
// выбор мог устареть между просмотром и бронированием.
//
// Выравнивание по сетке строгое: начало слота обязано совпадать с
// window.start + k*step — произвольные смещения внутри окна отклоняются.
func ValidateSlot(p ValidateParams) ValidationResult {
	// 1. Дата в прошлом
	if isDateBefore(p.Date, p.Now) && !p.AllowPastSlots {
		return ValidationResult{Outcome: OutcomePastSlot, Reason: ReasonPastDate}
	}

	// 2. Резолвим окна с тем же приоритетом, что и при расчёте дня
	resolution := ResolveWindows(p.Scope, p.Date)
	if !resolution.Open {
		return ValidationResult{Outcome: OutcomeClosed, Reason: resolution.Reason}
	}

	end, err := p.StartTime.AddMinutes(p.Service.DurationMinutes)
	if err != nil {
		return ValidationResult{Outcome: OutcomeClosed, Reason: ReasonOutsideWorkingHours}
	}

	// 3. Слот обязан целиком поместиться в одно из открытых под-окон
	var window *Window
	for i := range resolution.Windows {
		if resolution.Windows[i].Contains(p.StartTime, end) {
			window = &resolution.Windows[i]
			break
		}
	}
	if window == nil {
		return ValidationResult{Outcome: OutcomeClosed, Reason: ReasonOutsideWorkingHours}
	}

	// 4. Строгое выравнивание по сетке шага
	step := p.Business.SlotIntervalFor(p.Service)
	offset := p.StartTime.MustMinutes() - window.Start.MustMinutes()
	if step <= 0 || offset%step != 0 {
		return ValidationResult{Outcome: OutcomeMisaligned, Reason: ReasonOutsideWorkingHours}
	}

	// 5. Прошедшее время в таймзоне бизнеса
	if !p.AllowPastSlots && isSameDay(p.Date, p.Now) && !p.StartTime.IsAfter(types.NewTimeString(p.Now)) {
		return ValidationResult{Outcome: OutcomePastSlot, Reason: ReasonPastDate}
	}

	// 6. Занятость против актуального набора записей
	capacity := p.Business.CapacityFor(p.Service)
	count := countOverlapping(p.StartTime, end, filterBlocking(p.Appointments))

	if capacity != nil {
		if count >= *capacity {
			return ValidationResult{Outcome: OutcomeConflict}
		}
		if p.Business.CapacityMode == domain.CapacityModeMultiple {
			left := *capacity - count
			return ValidationResult{Outcome: OutcomeOK, SpotsLeft: &left}
		}
	}

	return ValidationResult{Outcome: OutcomeOK}
}
