package schedule

import (
	"context"
	"errors"
	"fmt"

	businessRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/business"
	scheduleRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/schedule"
	"github.com/termini-mk/AvailabilityService/internal/service/schedule/models"
)

// Service сервис для управления расписанием бизнеса и сотрудников
type Service struct {
	scheduleRepo ScheduleRepository
	businessRepo BusinessRepository
	cache        AvailabilityCache
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания.
// availabilityCache может быть nil — тогда инвалидация кэша пропускается.
func NewService(
	scheduleRepo ScheduleRepository,
	businessRepo BusinessRepository,
	availabilityCache AvailabilityCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		businessRepo: businessRepo,
		cache:        availabilityCache,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule получает расписание области: еженедельные правила с перерывами
// и особые даты. Публичная операция.
func (s *Service) GetSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for business=%d, employee=%v", req.BusinessID, req.EmployeeID)

	// Проверяем существование бизнеса (и сотрудника, если указан)
	if _, err := s.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("GetSchedule: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetSchedule: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetSchedule - failed to get business: %v", ErrInternal, err)
	}

	if req.EmployeeID != nil {
		if _, err := s.businessRepo.GetEmployee(ctx, req.BusinessID, *req.EmployeeID); err != nil {
			if errors.Is(err, businessRepo.ErrEmployeeNotFound) {
				s.logger.Warn("GetSchedule: employee id=%d not found", *req.EmployeeID)
				return nil, ErrEmployeeNotFound
			}
			s.logger.Error("GetSchedule: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, fmt.Errorf("%w: GetSchedule - failed to get employee: %v", ErrInternal, err)
		}
	}

	set, err := s.scheduleRepo.GetScheduleSet(ctx, req.BusinessID, req.EmployeeID, nil, nil)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSchedule: fetched %d rules and %d special dates for business=%d",
		len(set.Rules), len(set.SpecialDates), req.BusinessID)
	return models.FromDomainScheduleSet(req.BusinessID, req.EmployeeID, set), nil
}

// ReplaceSchedule атомарно заменяет еженедельное расписание области.
// Доступно только владельцу бизнеса. Существующие записи не затрагиваются:
// новое расписание действует на будущие расчёты доступности.
func (s *Service) ReplaceSchedule(ctx context.Context, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: replacing schedule for business=%d, employee=%v, rules=%d",
		req.BusinessID, req.EmployeeID, len(req.Rules))

	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	if req.EmployeeID != nil {
		if _, err := s.businessRepo.GetEmployee(ctx, req.BusinessID, *req.EmployeeID); err != nil {
			if errors.Is(err, businessRepo.ErrEmployeeNotFound) {
				s.logger.Warn("ReplaceSchedule: employee id=%d not found", *req.EmployeeID)
				return nil, ErrEmployeeNotFound
			}
			s.logger.Error("ReplaceSchedule: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, fmt.Errorf("%w: ReplaceSchedule - failed to get employee: %v", ErrInternal, err)
		}
	}

	rules, err := models.ToDomainRules(req.BusinessID, req.EmployeeID, req.Rules)
	if err != nil {
		s.logger.Warn("ReplaceSchedule: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Удаление старых правил и вставка новых — неделимая операция
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceWeeklyRules(txCtx, req.BusinessID, req.EmployeeID, rules)
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - repository error: %v", ErrInternal, err)
	}

	s.invalidateCache(ctx, req.BusinessID)

	s.logger.Info("ReplaceSchedule: successfully replaced schedule for business=%d", req.BusinessID)
	return s.GetSchedule(ctx, &models.GetScheduleRequest{
		BusinessID: req.BusinessID,
		EmployeeID: req.EmployeeID,
	})
}

// CreateSpecialDate создает особую дату (или перезаписывает существующую
// на тот же день). Доступно только владельцу бизнеса.
func (s *Service) CreateSpecialDate(ctx context.Context, req *models.CreateSpecialDateRequest) (*models.SpecialDateResponse, error) {
	s.logger.Info("CreateSpecialDate: business=%d, date=%s, available=%t",
		req.BusinessID, req.Date, req.IsAvailable)

	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	if req.EmployeeID != nil {
		if _, err := s.businessRepo.GetEmployee(ctx, req.BusinessID, *req.EmployeeID); err != nil {
			if errors.Is(err, businessRepo.ErrEmployeeNotFound) {
				s.logger.Warn("CreateSpecialDate: employee id=%d not found", *req.EmployeeID)
				return nil, ErrEmployeeNotFound
			}
			s.logger.Error("CreateSpecialDate: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, fmt.Errorf("%w: CreateSpecialDate - failed to get employee: %v", ErrInternal, err)
		}
	}

	specialDate, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateSpecialDate: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.scheduleRepo.CreateSpecialDate(ctx, specialDate)
	if err != nil {
		s.logger.Error("CreateSpecialDate: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: CreateSpecialDate - repository error: %v", ErrInternal, err)
	}

	s.invalidateCache(ctx, req.BusinessID)

	s.logger.Info("CreateSpecialDate: successfully created special date id=%d", created.ID)
	return models.FromDomainSpecialDate(created), nil
}

// DeleteSpecialDate удаляет особую дату. Доступно только владельцу бизнеса.
func (s *Service) DeleteSpecialDate(ctx context.Context, businessID, specialDateID, userID int64) error {
	s.logger.Info("DeleteSpecialDate: business=%d, specialDate=%d, user=%d", businessID, specialDateID, userID)

	if err := s.checkOwnerAccess(ctx, businessID, userID); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteSpecialDate(ctx, businessID, specialDateID); err != nil {
		if errors.Is(err, scheduleRepo.ErrSpecialDateNotFound) {
			s.logger.Warn("DeleteSpecialDate: special date id=%d not found", specialDateID)
			return ErrSpecialDateNotFound
		}
		s.logger.Error("DeleteSpecialDate: repository error for special date id=%d: %v", specialDateID, err)
		return fmt.Errorf("%w: DeleteSpecialDate - repository error: %v", ErrInternal, err)
	}

	s.invalidateCache(ctx, businessID)

	s.logger.Info("DeleteSpecialDate: successfully deleted special date id=%d", specialDateID)
	return nil
}

// Вспомогательные методы

// checkOwnerAccess проверяет, что пользователь является владельцем бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if business.OwnerUserID != userID {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

// invalidateCache сбрасывает кэш доступности бизнеса; неуспех не критичен
func (s *Service) invalidateCache(ctx context.Context, businessID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBusiness(ctx, businessID); err != nil {
		s.logger.Warn("invalidateCache: failed for business=%d: %v", businessID, err)
	}
}
