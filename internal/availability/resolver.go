package availability

import (
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
)

// Scope область расчёта: расписание бизнеса и, опционально, расписание
// выбранного сотрудника
type Scope struct {
	Business *domain.ScheduleSet

	// Employee расписание выбранного сотрудника. nil, когда сотрудник не выбран.
	// Пустой (но не nil) набор означает "сотрудник не кастомизировал расписание"
	// и приводит к наследованию расписания бизнеса целиком.
	Employee *domain.ScheduleSet
}

// Resolution результат резолвинга правил на одну дату
type Resolution struct {
	Open   bool
	Reason string // причина закрытия при Open=false

	// Windows открытые под-окна после вычитания перерывов, дизъюнктные,
	// в хронологическом порядке
	Windows []Window

	// WorkingHours исходные рабочие окна до вычитания перерывов
	WorkingHours []Window

	// Breaks перерывы выигравшего слоя правил
	Breaks []Window
}

// resolverStrategy стратегия одного уровня приоритета.
// Возвращает (результат, true), если уровень полностью определяет дату,
// либо (_, false), чтобы передать решение следующему уровню.
type resolverStrategy func(set *domain.ScheduleSet, date time.Time) (Resolution, bool)

// Порядок стратегий фиксирует приоритет: особая дата > еженедельные правила.
// Если ни одна стратегия не сработала, область закрыта.
var resolverStrategies = []resolverStrategy{
	resolveSpecialDate,
	resolveWeeklyRules,
}

// ResolveWindows резолвит эффективные окна области на дату.
// Если у сотрудника есть хоть какая-то кастомизация, его правила полностью
// замещают правила бизнеса (без слияния); иначе область сотрудника
// наследует расписание бизнеса без изменений.
func ResolveWindows(scope Scope, date time.Time) Resolution {
	set := scope.Business
	if scope.Employee != nil && !scope.Employee.IsEmpty() {
		set = scope.Employee
	}

	for _, strategy := range resolverStrategies {
		if res, ok := strategy(set, date); ok {
			return res
		}
	}

	return Resolution{Open: false, Reason: ReasonClosed}
}

// resolveSpecialDate уровень особых дат: запись на точную дату полностью
// определяет доступность, еженедельные правила игнорируются.
// Исключение: особая дата isAvailable=true без собственных часов лишь
// подтверждает открытие — часы берутся из еженедельных правил (defer).
func resolveSpecialDate(set *domain.ScheduleSet, date time.Time) (Resolution, bool) {
	special := set.SpecialFor(date)
	if special == nil {
		return Resolution{}, false
	}

	if !special.IsAvailable {
		reason := ReasonClosed
		if special.Reason != nil && *special.Reason != "" {
			reason = *special.Reason
		}
		return Resolution{Open: false, Reason: reason}, true
	}

	if !special.HasCustomHours() {
		return Resolution{}, false
	}

	window := Window{Start: *special.StartTime, End: *special.EndTime}
	return Resolution{
		Open:         true,
		Windows:      []Window{window},
		WorkingHours: []Window{window},
	}, true
}

// resolveWeeklyRules уровень еженедельных правил. Каждое правило дня —
// независимое окно (раздельные смены); перерывы вычитаются из окна
// своего правила.
func resolveWeeklyRules(set *domain.ScheduleSet, date time.Time) (Resolution, bool) {
	rules := set.RulesForDay(int(date.Weekday()))
	if len(rules) == 0 {
		return Resolution{}, false
	}

	res := Resolution{Open: true}

	for _, rule := range rules {
		// Правило с isAvailable=false явно закрывает свой интервал,
		// окон не даёт
		if !rule.IsAvailable {
			continue
		}

		working := Window{Start: rule.StartTime, End: rule.EndTime}
		res.WorkingHours = append(res.WorkingHours, working)

		breaks := make([]Window, 0, len(rule.Breaks))
		for _, b := range rule.Breaks {
			breaks = append(breaks, Window{Start: b.StartTime, End: b.EndTime})
		}
		res.Breaks = append(res.Breaks, breaks...)

		res.Windows = append(res.Windows, subtractBreaks(working, breaks)...)
	}

	// Все правила дня оказались закрывающими
	if len(res.Windows) == 0 {
		return Resolution{Open: false, Reason: ReasonClosed}, true
	}

	sortWindows(res.Windows)
	sortWindows(res.WorkingHours)
	sortWindows(res.Breaks)

	return res, true
}
