package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/termini-mk/AvailabilityService/internal/availability"
	"github.com/termini-mk/AvailabilityService/internal/domain"
	businessRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/business"
)

// UseCase use case для создания записи
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
// availabilityCache может быть nil — тогда инвалидация кэша пропускается.
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

// Execute выполняет use case создания записи.
// Доступность слота проверяется заново внутри сериализуемой транзакции:
// чтение занятости (FOR UPDATE) и вставка неделимы, поэтому два конкурентных
// запроса на последнее место не могут пройти оба.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, business=%d, service=%d, date=%s, time=%s",
		req.UserID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес и услугу, проверяем сотрудника
	business, service, err := uc.loadScopeEntities(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Текущий момент в таймзоне бизнеса
	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("CreateAppointment: invalid timezone %q for business id=%d: %v",
			business.Timezone, business.ID, err)
		return nil, fmt.Errorf("%w: invalid business timezone: %v", ErrInternal, err)
	}
	now := uc.timeProvider.Now().In(loc)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)

	// Прошедшие слоты разрешены только владельцу бизнеса (запись задним числом)
	allowPast := req.AllowPastSlots && req.UserID == business.OwnerUserID

	// 4. Горизонт бронирования
	if err := validateDate(date, now, business.Settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment
	var spotsLeft *int

	// 5. Проверка слота и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Снапшот расписания области
		scope, txErr := uc.loadScope(txCtx, req.BusinessID, req.EmployeeID, date)
		if txErr != nil {
			uc.logger.Error("CreateAppointment: failed to load schedule: %v", txErr)
			return fmt.Errorf("%w: failed to load schedule: %v", ErrInternal, txErr)
		}

		// 5.2. Записи на дату с блокировкой FOR UPDATE
		appointments, txErr := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, domain.BusinessAppointmentsFilter{
			BusinessID:   req.BusinessID,
			EmployeeID:   req.EmployeeID,
			StartDate:    &date,
			EndDate:      &date,
			OnlyBlocking: true,
		})
		if txErr != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", txErr)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, txErr)
		}

		// 5.3. Минимальное время до записи (не применяется к ручной записи владельца)
		if !allowPast {
			if txErr := validateBookingNotice(date, req.StartTime, now, business.Settings.MinBookingNoticeMinutes); txErr != nil {
				uc.logger.Warn("CreateAppointment: notice validation failed: %v", txErr)
				return txErr
			}
		}

		// 5.4. Повторная проверка слота движком против актуального состояния
		validation := availability.ValidateSlot(availability.ValidateParams{
			Business:       business,
			Service:        service,
			Scope:          scope,
			Appointments:   appointments,
			Date:           date,
			StartTime:      req.StartTime,
			Now:            now,
			AllowPastSlots: allowPast,
		})

		switch validation.Outcome {
		case availability.OutcomeClosed:
			if validation.Reason == availability.ReasonOutsideWorkingHours {
				uc.logger.Warn("CreateAppointment: slot %s is outside working hours", req.StartTime)
				return ErrInvalidTimeSlot
			}
			uc.logger.Warn("CreateAppointment: business closed on %s: %s",
				date.Format(domain.DateFormat), validation.Reason)
			return ErrBusinessClosed
		case availability.OutcomeMisaligned:
			uc.logger.Warn("CreateAppointment: slot %s is not aligned to the slot grid", req.StartTime)
			return ErrInvalidTimeSlot
		case availability.OutcomePastSlot:
			uc.logger.Warn("CreateAppointment: slot %s %s is in the past",
				date.Format(domain.DateFormat), req.StartTime)
			return ErrSlotInPast
		case availability.OutcomeConflict:
			uc.logger.Warn("CreateAppointment: slot %s is fully booked", req.StartTime)
			return ErrSlotNotAvailable
		}

		// Остаток мест после вставки создаваемой записи
		if validation.SpotsLeft != nil {
			left := *validation.SpotsLeft - 1
			spotsLeft = &left
		}

		// 5.5. Создаем запись с денормализацией данных услуги
		appointment := &domain.Appointment{
			BusinessID:      req.BusinessID,
			ServiceID:       req.ServiceID,
			EmployeeID:      req.EmployeeID,
			UserID:          req.UserID,
			Date:            date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusConfirmed,
			ServiceName:     service.Name,
			ServicePrice:    servicePrice(service),
			Notes:           req.Notes,
		}

		created, txErr := uc.appointmentRepo.Create(txCtx, appointment)
		if txErr != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", txErr)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, txErr)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 6. Инвалидируем кэш доступности бизнеса (неуспех не критичен)
	if uc.cache != nil {
		if err := uc.cache.InvalidateBusiness(ctx, req.BusinessID); err != nil {
			uc.logger.Warn("CreateAppointment: cache invalidation failed: %v", err)
		}
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return buildResponse(result, spotsLeft), nil
}

// loadScopeEntities получает бизнес и услугу, проверяет выбранного сотрудника
func (uc *UseCase) loadScopeEntities(ctx context.Context, req *Request) (*domain.Business, *domain.Service, error) {
	business, err := uc.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	service, err := uc.businessRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, nil, ErrServiceNotFound
	}

	if req.EmployeeID != nil {
		if !business.Settings.AllowEmployeeBooking {
			uc.logger.Warn("CreateAppointment: business id=%d does not allow employee selection", req.BusinessID)
			return nil, nil, ErrEmployeeBookingNotAllowed
		}

		employee, err := uc.businessRepo.GetEmployee(ctx, req.BusinessID, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrEmployeeNotFound) {
				uc.logger.Warn("CreateAppointment: employee id=%d not found", *req.EmployeeID)
				return nil, nil, ErrEmployeeNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
		}
		if !employee.IsActive {
			uc.logger.Warn("CreateAppointment: employee id=%d is inactive", *req.EmployeeID)
			return nil, nil, ErrEmployeeNotFound
		}
	}

	return business, service, nil
}

// loadScope загружает наборы расписаний области на дату
func (uc *UseCase) loadScope(ctx context.Context, businessID int64, employeeID *int64, date time.Time) (availability.Scope, error) {
	businessSet, err := uc.scheduleRepo.GetScheduleSet(ctx, businessID, nil, &date, &date)
	if err != nil {
		return availability.Scope{}, err
	}

	scope := availability.Scope{Business: businessSet}

	if employeeID != nil {
		employeeSet, err := uc.scheduleRepo.GetScheduleSet(ctx, businessID, employeeID, nil, nil)
		if err != nil {
			return availability.Scope{}, err
		}
		scope.Employee = employeeSet
	}

	return scope, nil
}

// servicePrice извлекает цену услуги; nil означает 0
func servicePrice(service *domain.Service) float64 {
	if service.Price == nil {
		return 0
	}
	return *service.Price
}
