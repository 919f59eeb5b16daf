package get_day_availability

import (
	"context"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/internal/infra/cache"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetScheduleSet(ctx context.Context, businessID int64, employeeID *int64, from, to *time.Time) (*domain.ScheduleSet, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	GetEmployee(ctx context.Context, businessID, employeeID int64) (*domain.Employee, error)
}

// AvailabilityCache интерфейс кэша рассчитанной доступности
type AvailabilityCache interface {
	Get(ctx context.Context, key cache.DayKey, dest interface{}) error
	Set(ctx context.Context, key cache.DayKey, value interface{}) error
}

// TransactionManager интерфейс для управления транзакциями.
// DoReadOnly даёт консистентный снапшот расписания и записей.
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
