package get_range_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/availability"
	"github.com/termini-mk/AvailabilityService/internal/domain"
	businessRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/business"
)

// UseCase use case для получения доступности на диапазон дат
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	businessRepo    BusinessRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	// parallelism размер пула воркеров расчёта дней; <=1 — последовательно
	parallelism int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	businessRepo BusinessRepository,
	txManager TransactionManager,
	parallelism int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		businessRepo:    businessRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		parallelism:     parallelism,
	}
}

// Execute выполняет use case получения доступности диапазона дат.
// Расписание и записи читаются одним снапшотом, дни считаются движком
// параллельно — результат идентичен последовательному расчёту.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetRangeAvailability: business=%d, service=%d, range=%s..%s",
		req.BusinessID, req.ServiceID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных и длины диапазона
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetRangeAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес и услугу, проверяем сотрудника
	business, service, err := uc.loadScopeEntities(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Текущий момент и границы диапазона в таймзоне бизнеса
	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("GetRangeAvailability: invalid timezone %q for business id=%d: %v",
			business.Timezone, business.ID, err)
		return nil, fmt.Errorf("%w: invalid business timezone: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now().In(loc)
	startDate := time.Date(req.StartDate.Year(), req.StartDate.Month(), req.StartDate.Day(), 0, 0, 0, 0, loc)
	endDate := time.Date(req.EndDate.Year(), req.EndDate.Month(), req.EndDate.Day(), 0, 0, 0, 0, loc)

	// 4. Читаем расписание и записи всего диапазона одним снапшотом
	var scope availability.Scope
	var appointmentsByDate map[string][]*domain.Appointment

	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		businessSet, txErr := uc.scheduleRepo.GetScheduleSet(txCtx, req.BusinessID, nil, &startDate, &endDate)
		if txErr != nil {
			return txErr
		}
		scope = availability.Scope{Business: businessSet}

		if req.EmployeeID != nil {
			employeeSet, txErr := uc.scheduleRepo.GetScheduleSet(txCtx, req.BusinessID, req.EmployeeID, nil, nil)
			if txErr != nil {
				return txErr
			}
			scope.Employee = employeeSet
		}

		appointments, txErr := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, domain.BusinessAppointmentsFilter{
			BusinessID:   req.BusinessID,
			EmployeeID:   req.EmployeeID,
			StartDate:    &startDate,
			EndDate:      &endDate,
			OnlyBlocking: true,
		})
		if txErr != nil {
			return txErr
		}

		appointmentsByDate = groupByDate(appointments)
		return nil
	})

	if err != nil {
		uc.logger.Error("GetRangeAvailability: failed to load snapshot: %v", err)
		return nil, fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
	}

	// 5. Рассчитываем диапазон
	results := availability.ComputeRange(availability.RangeParams{
		Business:           business,
		Service:            service,
		Scope:              scope,
		AppointmentsByDate: appointmentsByDate,
		StartDate:          startDate,
		EndDate:            endDate,
		Now:                now,
		Parallelism:        uc.parallelism,
	})

	response := buildResponse(req, business, results)

	uc.logger.Info("GetRangeAvailability: business=%d, computed %d days",
		req.BusinessID, len(response.Days))

	return response, nil
}

// loadScopeEntities получает бизнес и услугу, проверяет выбранного сотрудника
func (uc *UseCase) loadScopeEntities(ctx context.Context, req *Request) (*domain.Business, *domain.Service, error) {
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetRangeAvailability: business id=%d not found", req.BusinessID)
			return nil, nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetRangeAvailability: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	service, err := uc.businessRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetRangeAvailability: service id=%d not found", req.ServiceID)
			return nil, nil, ErrServiceNotFound
		}
		uc.logger.Error("GetRangeAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetRangeAvailability: service id=%d is inactive", req.ServiceID)
		return nil, nil, ErrServiceNotFound
	}

	if req.EmployeeID != nil {
		if !business.Settings.AllowEmployeeBooking {
			uc.logger.Warn("GetRangeAvailability: business id=%d does not allow employee selection", req.BusinessID)
			return nil, nil, ErrEmployeeBookingNotAllowed
		}

		employee, err := uc.businessRepo.GetEmployee(ctx, req.BusinessID, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrEmployeeNotFound) {
				uc.logger.Warn("GetRangeAvailability: employee id=%d not found", *req.EmployeeID)
				return nil, nil, ErrEmployeeNotFound
			}
			uc.logger.Error("GetRangeAvailability: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
		}
		if !employee.IsActive {
			uc.logger.Warn("GetRangeAvailability: employee id=%d is inactive", *req.EmployeeID)
			return nil, nil, ErrEmployeeNotFound
		}
	}

	return business, service, nil
}

// groupByDate раскладывает записи по календарным датам
func groupByDate(appointments []*domain.Appointment) map[string][]*domain.Appointment {
	grouped := make(map[string][]*domain.Appointment, len(appointments))
	for _, a := range appointments {
		key := a.Date.Format(domain.DateFormat)
		grouped[key] = append(grouped[key], a)
	}
	return grouped
}
