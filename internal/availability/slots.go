package availability

import "github.com/termini-mk/AvailabilityService/pkg/types"

// Candidate кандидат слота [Start, End) длиной в одну услугу
type Candidate struct {
	Start types.TimeString
	End   types.TimeString
}

// GenerateSlots генерирует кандидатов слотов по открытым под-окнам.
// В каждом окне старт идёт от начала окна с шагом stepMinutes, кандидат
// [t, t+durationMinutes) попадает в результат, пока t+duration <= window.End.
// Кандидаты разных окон конкатенируются в хронологическом порядке; пересечение
// с перерывами исключено по построению, так как перерывы уже вычтены из окон.
// Если услуга не помещается ни в одно окно, результат пуст — это не ошибка.
func GenerateSlots(windows []Window, durationMinutes, stepMinutes int) []Candidate {
	if durationMinutes <= 0 || stepMinutes <= 0 {
		return nil
	}

	candidates := make([]Candidate, 0)

	for _, w := range windows {
		start := w.Start.MustMinutes()
		end := w.End.MustMinutes()

		for t := start; t+durationMinutes <= end; t += stepMinutes {
			from, err := types.NewTimeStringFromMinutes(t)
			if err != nil {
				break
			}
			to, err := types.NewTimeStringFromMinutes(t + durationMinutes)
			if err != nil {
				break
			}
			candidates = append(candidates, Candidate{Start: from, End: to})
		}
	}

	return candidates
}
