package domain

import "time"

// Service услуга бизнеса. Длительность услуги задаёт длину слота.
type Service struct {
	ID         int64
	BusinessID int64
	Name       string

	DurationMinutes int
	Price           *float64

	// CustomCapacity переопределяет defaultCapacity бизнеса (только для multiple)
	CustomCapacity *int

	// CustomSlotIntervalMinutes переопределяет шаг слотов бизнеса
	CustomSlotIntervalMinutes *int

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
