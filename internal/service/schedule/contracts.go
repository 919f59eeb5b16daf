package schedule

import (
	"context"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetScheduleSet(ctx context.Context, businessID int64, employeeID *int64, from, to *time.Time) (*domain.ScheduleSet, error)
	ReplaceWeeklyRules(ctx context.Context, businessID int64, employeeID *int64, rules []*domain.WeeklyRule) error
	CreateSpecialDate(ctx context.Context, sd *domain.SpecialDate) (*domain.SpecialDate, error)
	DeleteSpecialDate(ctx context.Context, businessID, id int64) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	GetEmployee(ctx context.Context, businessID, employeeID int64) (*domain.Employee, error)
}

// AvailabilityCache интерфейс инвалидации кэша доступности
type AvailabilityCache interface {
	InvalidateBusiness(ctx context.Context, businessID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
