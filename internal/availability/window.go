package availability

import (
	"sort"

	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Причины недоступности дня. Попадают в публичный ответ как reason.
const (
	ReasonClosed              = "Business closed"
	ReasonPastDate            = "Date is in the past"
	ReasonNoFittingWindow     = "Service duration does not fit into working hours"
	ReasonOutsideWorkingHours = "Outside working hours"
)

// Window полуинтервал [Start, End) в пределах одних суток, минутное разрешение
type Window struct {
	Start types.TimeString
	End   types.TimeString
}

// DurationMinutes длительность окна в минутах
func (w Window) DurationMinutes() int {
	return w.End.MustMinutes() - w.Start.MustMinutes()
}

// Contains проверяет, что интервал [start, end) целиком лежит внутри окна
func (w Window) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(w.Start) && !end.IsAfter(w.End)
}

// Overlaps проверяет пересечение с интервалом [start, end).
// Полуинтервалы: граничащие интервалы пересечением не считаются.
func (w Window) Overlaps(start, end types.TimeString) bool {
	return w.Start.IsBefore(end) && start.IsBefore(w.End)
}

// subtractBreaks вычитает перерывы из окна, возвращая дизъюнктные под-окна
// в хронологическом порядке. Перерывы могут пересекаться между собой —
// результат всё равно корректен, так как вычитание идёт последовательно
// по отсортированному списку.
func subtractBreaks(w Window, breaks []Window) []Window {
	if len(breaks) == 0 {
		return []Window{w}
	}

	sorted := make([]Window, len(breaks))
	copy(sorted, breaks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.IsBefore(sorted[j].Start)
	})

	result := make([]Window, 0, len(sorted)+1)
	cursor := w.Start

	for _, b := range sorted {
		// Перерывы вне окна игнорируются
		if !w.Overlaps(b.Start, b.End) {
			continue
		}

		if cursor.IsBefore(b.Start) {
			result = append(result, Window{Start: cursor, End: b.Start})
		}
		if b.End.IsAfter(cursor) {
			cursor = b.End
		}
	}

	if cursor.IsBefore(w.End) {
		result = append(result, Window{Start: cursor, End: w.End})
	}

	return result
}

// sortWindows сортирует окна по времени начала
func sortWindows(windows []Window) {
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.IsBefore(windows[j].Start)
	})
}
