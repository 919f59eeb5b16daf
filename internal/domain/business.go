package domain

import (
	"fmt"
	"time"
)

// CapacityMode режим вместимости бизнеса
type CapacityMode string

const (
	// CapacityModeSingle не более одной записи на любой пересекающийся интервал
	CapacityModeSingle CapacityMode = "single"

	// CapacityModeMultiple до N одновременных записей на интервал
	CapacityModeMultiple CapacityMode = "multiple"
)

// BookingSettings типизированные настройки бронирования бизнеса.
// Валидируются на границе конфигурации, а не при каждом расчёте.
type BookingSettings struct {
	AllowEmployeeBooking    bool // Разрешён ли выбор конкретного сотрудника при записи
	MinBookingNoticeMinutes int  // Минимальное время до начала слота при публичной записи
	AdvanceBookingDays      int  // Горизонт бронирования, 0 = без ограничения
}

// Validate проверяет настройки бронирования
func (s BookingSettings) Validate() error {
	if s.MinBookingNoticeMinutes < MinBookingNoticeMinutes || s.MinBookingNoticeMinutes > MaxBookingNoticeMinutes {
		return fmt.Errorf("minBookingNoticeMinutes must be between %d and %d", MinBookingNoticeMinutes, MaxBookingNoticeMinutes)
	}
	if s.AdvanceBookingDays < MinAdvanceBookingDays || s.AdvanceBookingDays > MaxAdvanceBookingDays {
		return fmt.Errorf("advanceBookingDays must be between %d and %d", MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}
	return nil
}

// Business бизнес, публикующий доступные для записи временные окна
type Business struct {
	ID          int64
	Name        string
	OwnerUserID int64

	CapacityMode               CapacityMode
	DefaultCapacity            *int // nil = вместимость не отслеживается (безлимит)
	DefaultSlotIntervalMinutes int
	Timezone                   string // IANA, например "Europe/Skopje"

	Settings BookingSettings

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location возвращает таймзону бизнеса.
// При пустом или некорректном значении используется DefaultTimezone.
func (b *Business) Location() (*time.Location, error) {
	tz := b.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	return time.LoadLocation(tz)
}

// SlotIntervalFor возвращает шаг генерации слотов для услуги:
// интервал услуги, если задан, иначе интервал бизнеса по умолчанию.
func (b *Business) SlotIntervalFor(service *Service) int {
	if service != nil && service.CustomSlotIntervalMinutes != nil && *service.CustomSlotIntervalMinutes > 0 {
		return *service.CustomSlotIntervalMinutes
	}
	if b.DefaultSlotIntervalMinutes > 0 {
		return b.DefaultSlotIntervalMinutes
	}
	return DefaultSlotIntervalMinutes
}

// CapacityFor возвращает вместимость слота для услуги.
// single: всегда 1. multiple: customCapacity услуги, если задан, иначе
// defaultCapacity бизнеса; nil = безлимит.
func (b *Business) CapacityFor(service *Service) *int {
	if b.CapacityMode == CapacityModeSingle {
		one := 1
		return &one
	}
	if service != nil && service.CustomCapacity != nil {
		return service.CustomCapacity
	}
	return b.DefaultCapacity
}

// HasAdvanceBookingLimit проверяет наличие ограничения горизонта бронирования
func (b *Business) HasAdvanceBookingLimit() bool {
	return b.Settings.AdvanceBookingDays > 0
}

// Employee сотрудник бизнеса
type Employee struct {
	ID         int64
	BusinessID int64
	Name       string
	IsActive   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
