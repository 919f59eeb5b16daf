package domain

// Значения по умолчанию для настроек бизнеса
const (
	DefaultSlotIntervalMinutes     = 30
	DefaultMinBookingNoticeMinutes = 0
	DefaultAdvanceBookingDays      = 0 // 0 = без ограничения
	DefaultTimezone                = "Europe/Skopje"
)

// Ограничения бизнес-валидации
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов

	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 240

	MinCapacity = 1
	MaxCapacity = 100

	MinAdvanceBookingDays = 0
	MaxAdvanceBookingDays = 365

	MinBookingNoticeMinutes = 0
	MaxBookingNoticeMinutes = 10080 // неделя

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxSpecialDateReasonLength  = 200

	// MaxRangeDays максимальная длина диапазона дат в одном запросе доступности
	MaxRangeDays = 62
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, занимающие вместимость слота.
// Завершённые записи блокируют повторное бронирование того же интервала
// в тот же день, поэтому входят в список.
var BlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// NonBlockingStatuses статусы, не занимающие вместимость
var NonBlockingStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}
