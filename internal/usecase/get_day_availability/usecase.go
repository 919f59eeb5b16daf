package get_day_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/availability"
	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/internal/infra/cache"
	businessRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/business"
)

// UseCase use case для получения доступности на одну дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	businessRepo    BusinessRepository
	cache           AvailabilityCache
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// availabilityCache может быть nil — тогда кэширование отключено.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	businessRepo BusinessRepository,
	availabilityCache AvailabilityCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		businessRepo:    businessRepo,
		cache:           availabilityCache,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступности дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDayAvailability: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDayAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес и услугу, проверяем сотрудника
	business, service, err := uc.loadScopeEntities(ctx, req)
	if err != nil {
		return nil, err
	}

	// Превью с прошедшими слотами доступно только владельцу бизнеса
	if req.AllowPastSlots && req.UserID != business.OwnerUserID {
		uc.logger.Warn("GetDayAvailability: user=%d is not the owner of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	// 3. Текущий момент в таймзоне бизнеса
	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("GetDayAvailability: invalid timezone %q for business id=%d: %v",
			business.Timezone, business.ID, err)
		return nil, fmt.Errorf("%w: invalid business timezone: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now().In(loc)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)

	// 4. Пробуем кэш (только для публичного расчёта)
	cacheKey := cache.DayKey{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		Date:       date.Format(domain.DateFormat),
	}

	if uc.cache != nil && !req.AllowPastSlots {
		var cached Response
		if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil {
			uc.logger.Info("GetDayAvailability: cache hit for business=%d, date=%s",
				req.BusinessID, cacheKey.Date)
			return &cached, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			// Кэш недоступен — считаем без него
			uc.logger.Warn("GetDayAvailability: cache read failed: %v", err)
		}
	}

	// 5. Читаем расписание и записи одним консистентным снапшотом
	var scope availability.Scope
	var appointments []*domain.Appointment

	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var txErr error
		scope, txErr = uc.loadScope(txCtx, req.BusinessID, req.EmployeeID, date, date)
		if txErr != nil {
			return txErr
		}

		appointments, txErr = uc.appointmentRepo.GetByBusinessWithFilter(txCtx, domain.BusinessAppointmentsFilter{
			BusinessID:   req.BusinessID,
			EmployeeID:   req.EmployeeID,
			StartDate:    &date,
			EndDate:      &date,
			OnlyBlocking: true,
		})
		return txErr
	})

	if err != nil {
		uc.logger.Error("GetDayAvailability: failed to load snapshot: %v", err)
		return nil, fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
	}

	// 6. Рассчитываем день
	result := availability.ComputeDay(availability.DayParams{
		Business:       business,
		Service:        service,
		Scope:          scope,
		Appointments:   appointments,
		Date:           date,
		Now:            now,
		AllowPastSlots: req.AllowPastSlots,
	})

	response := buildResponse(req, business, result)

	// 7. Кэшируем публичный результат (промах кэша не критичен)
	if uc.cache != nil && !req.AllowPastSlots {
		if err := uc.cache.Set(ctx, cacheKey, response); err != nil {
			uc.logger.Warn("GetDayAvailability: cache write failed: %v", err)
		}
	}

	uc.logger.Info("GetDayAvailability: business=%d, date=%s, available=%t, slots=%d",
		req.BusinessID, response.Date, response.Available, response.TotalSlots)

	return response, nil
}

// loadScopeEntities получает бизнес и услугу, проверяет выбранного сотрудника
func (uc *UseCase) loadScopeEntities(ctx context.Context, req *Request) (*domain.Business, *domain.Service, error) {
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetDayAvailability: business id=%d not found", req.BusinessID)
			return nil, nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetDayAvailability: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	service, err := uc.businessRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetDayAvailability: service id=%d not found", req.ServiceID)
			return nil, nil, ErrServiceNotFound
		}
		uc.logger.Error("GetDayAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetDayAvailability: service id=%d is inactive", req.ServiceID)
		return nil, nil, ErrServiceNotFound
	}

	if req.EmployeeID != nil {
		if !business.Settings.AllowEmployeeBooking {
			uc.logger.Warn("GetDayAvailability: business id=%d does not allow employee selection", req.BusinessID)
			return nil, nil, ErrEmployeeBookingNotAllowed
		}

		employee, err := uc.businessRepo.GetEmployee(ctx, req.BusinessID, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrEmployeeNotFound) {
				uc.logger.Warn("GetDayAvailability: employee id=%d not found", *req.EmployeeID)
				return nil, nil, ErrEmployeeNotFound
			}
			uc.logger.Error("GetDayAvailability: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
		}
		if !employee.IsActive {
			uc.logger.Warn("GetDayAvailability: employee id=%d is inactive", *req.EmployeeID)
			return nil, nil, ErrEmployeeNotFound
		}
	}

	return business, service, nil
}

// loadScope загружает наборы расписаний области: бизнеса и, при выборе,
// сотрудника. Особые даты ограничиваются периодом [from, to].
func (uc *UseCase) loadScope(ctx context.Context, businessID int64, employeeID *int64, from, to time.Time) (availability.Scope, error) {
	businessSet, err := uc.scheduleRepo.GetScheduleSet(ctx, businessID, nil, &from, &to)
	if err != nil {
		return availability.Scope{}, err
	}

	scope := availability.Scope{Business: businessSet}

	// Набор сотрудника загружается без ограничения по датам: признак
	// "сотрудник кастомизировал расписание" определяется по всему набору
	if employeeID != nil {
		employeeSet, err := uc.scheduleRepo.GetScheduleSet(ctx, businessID, employeeID, nil, nil)
		if err != nil {
			return availability.Scope{}, err
		}
		scope.Employee = employeeSet
	}

	return scope, nil
}
