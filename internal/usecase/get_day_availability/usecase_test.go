package get_day_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termini-mk/AvailabilityService/internal/availability"
	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/internal/infra/cache"
	businessRepo "github.com/termini-mk/AvailabilityService/internal/infra/storage/business"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Фейки зависимостей

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	calls        int
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(_ context.Context, _ domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	f.calls++
	return f.appointments, nil
}

type fakeScheduleRepo struct {
	businessSet *domain.ScheduleSet
	employeeSet *domain.ScheduleSet
}

func (f *fakeScheduleRepo) GetScheduleSet(_ context.Context, _ int64, employeeID *int64, _, _ *time.Time) (*domain.ScheduleSet, error) {
	if employeeID != nil {
		if f.employeeSet != nil {
			return f.employeeSet, nil
		}
		return &domain.ScheduleSet{}, nil
	}
	return f.businessSet, nil
}

type fakeBusinessRepo struct {
	business *domain.Business
	service  *domain.Service
	employee *domain.Employee
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	if f.business == nil || f.business.ID != id {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return f.business, nil
}

func (f *fakeBusinessRepo) GetService(_ context.Context, _, serviceID int64) (*domain.Service, error) {
	if f.service == nil || f.service.ID != serviceID {
		return nil, businessRepo.ErrServiceNotFound
	}
	return f.service, nil
}

func (f *fakeBusinessRepo) GetEmployee(_ context.Context, _, employeeID int64) (*domain.Employee, error) {
	if f.employee == nil || f.employee.ID != employeeID {
		return nil, businessRepo.ErrEmployeeNotFound
	}
	return f.employee, nil
}

type fakeDayCache struct {
	stored  *Response
	getErr  error
	getKeys []cache.DayKey
	setKeys []cache.DayKey
}

func (f *fakeDayCache) Get(_ context.Context, key cache.DayKey, dest interface{}) error {
	f.getKeys = append(f.getKeys, key)
	if f.getErr != nil {
		return f.getErr
	}
	if f.stored == nil {
		return cache.ErrCacheMiss
	}
	*dest.(*Response) = *f.stored
	return nil
}

func (f *fakeDayCache) Set(_ context.Context, key cache.DayKey, _ interface{}) error {
	f.setKeys = append(f.setKeys, key)
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Хелперы тестовых данных

func ts(s string) types.TimeString { return types.TimeString(s) }

func testBusiness() *domain.Business {
	return &domain.Business{
		ID:                         1,
		Name:                       "Barbershop",
		OwnerUserID:                100,
		CapacityMode:               domain.CapacityModeSingle,
		DefaultSlotIntervalMinutes: 30,
		Timezone:                   "UTC",
		Settings: domain.BookingSettings{
			AllowEmployeeBooking: true,
		},
	}
}

func testService() *domain.Service {
	return &domain.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Haircut",
		DurationMinutes: 30,
		IsActive:        true,
	}
}

// mondaySchedule понедельник 09:00-17:00 с перерывом 12:00-13:00
func mondaySchedule() *domain.ScheduleSet {
	return &domain.ScheduleSet{
		Rules: []*domain.WeeklyRule{
			{
				BusinessID:  1,
				DayOfWeek:   1,
				StartTime:   ts("09:00"),
				EndTime:     ts("17:00"),
				IsAvailable: true,
				Breaks: []domain.Break{
					{StartTime: ts("12:00"), EndTime: ts("13:00")},
				},
			},
		},
	}
}

type testEnv struct {
	uc           *UseCase
	appointments *fakeAppointmentRepo
	schedules    *fakeScheduleRepo
	businesses   *fakeBusinessRepo
	cache        *fakeDayCache
}

func newTestEnv(business *domain.Business, service *domain.Service, schedule *domain.ScheduleSet, now time.Time) *testEnv {
	env := &testEnv{
		appointments: &fakeAppointmentRepo{},
		schedules:    &fakeScheduleRepo{businessSet: schedule},
		businesses:   &fakeBusinessRepo{business: business, service: service},
		cache:        &fakeDayCache{},
	}
	env.uc = NewUseCase(env.appointments, env.schedules, env.businesses, env.cache, &fakeTxManager{}, nopLogger{})
	env.uc.timeProvider = &fakeTimeProvider{now: now}
	return env
}

// monday 2025-06-02, "сейчас" — воскресенье накануне
var (
	testMonday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	testNow    = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
)

func validRequest() *Request {
	return &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       testMonday,
	}
}

func slotByStart(t *testing.T, resp *Response, start types.TimeString) *Slot {
	t.Helper()
	for i := range resp.Slots {
		if resp.Slots[i].StartTime == start {
			return &resp.Slots[i]
		}
	}
	return nil
}

// Тесты

func TestExecute_SplitWindowsAroundBreak(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)

	resp, err := env.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Equal(t, string(domain.CapacityModeSingle), resp.CapacityMode)

	// 09:00-12:00 даёт 6 слотов, 13:00-17:00 — 8
	assert.Equal(t, 14, resp.TotalSlots)
	require.Len(t, resp.Slots, 14)
	assert.Equal(t, ts("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, ts("16:30"), resp.Slots[13].StartTime)

	// Слоты перерыва не генерируются
	assert.Nil(t, slotByStart(t, resp, ts("12:00")))
	assert.Nil(t, slotByStart(t, resp, ts("12:30")))

	require.Len(t, resp.WorkingHours, 1)
	assert.Equal(t, ts("09:00"), resp.WorkingHours[0].StartTime)
	assert.Equal(t, ts("17:00"), resp.WorkingHours[0].EndTime)
	require.Len(t, resp.Breaks, 1)
	assert.Equal(t, ts("12:00"), resp.Breaks[0].StartTime)
}

func TestExecute_ConfirmedAppointmentBlocksExactSlot(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)
	env.appointments.appointments = []*domain.Appointment{
		{
			BusinessID:      1,
			ServiceID:       10,
			UserID:          300,
			Date:            testMonday,
			StartTime:       ts("10:00"),
			DurationMinutes: 30,
			Status:          domain.StatusConfirmed,
		},
	}

	resp, err := env.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	blocked := slotByStart(t, resp, ts("10:00"))
	require.NotNil(t, blocked)
	assert.False(t, blocked.Available)

	free := 0
	for _, s := range resp.Slots {
		if s.Available {
			free++
		}
	}
	assert.Equal(t, 13, free, "single mode blocks exactly the overlapping slot")
}

func TestExecute_HolidaySpecialDate(t *testing.T) {
	schedule := mondaySchedule()
	reason := "Holiday"
	schedule.SpecialDates = []*domain.SpecialDate{
		{BusinessID: 1, Date: testMonday, IsAvailable: false, Reason: &reason},
	}
	env := newTestEnv(testBusiness(), testService(), schedule, testNow)

	resp, err := env.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, "Holiday", resp.Reason)
	assert.Equal(t, 0, resp.TotalSlots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ClosedDayWithoutRules(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)

	req := validRequest()
	req.Date = testMonday.AddDate(0, 0, 1) // вторник без правил

	resp, err := env.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, availability.ReasonClosed, resp.Reason)
}

func TestExecute_PastDateIsUnavailable(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)

	req := validRequest()
	req.Date = testMonday.AddDate(0, 0, -7) // прошлый понедельник

	resp, err := env.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, availability.ReasonPastDate, resp.Reason)
}

func TestExecute_ValidationErrors(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)

	tests := []struct {
		name   string
		modify func(req *Request)
	}{
		{"zero business", func(req *Request) { req.BusinessID = 0 }},
		{"negative service", func(req *Request) { req.ServiceID = -1 }},
		{"zero employee", func(req *Request) { zero := int64(0); req.EmployeeID = &zero }},
		{"zero date", func(req *Request) { req.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_BusinessNotFound(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)

	req := validRequest()
	req.BusinessID = 999

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_InactiveServiceNotFound(t *testing.T) {
	service := testService()
	service.IsActive = false
	env := newTestEnv(testBusiness(), service, mondaySchedule(), testNow)

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_EmployeeBookingNotAllowed(t *testing.T) {
	business := testBusiness()
	business.Settings.AllowEmployeeBooking = false
	env := newTestEnv(business, testService(), mondaySchedule(), testNow)

	req := validRequest()
	employeeID := int64(5)
	req.EmployeeID = &employeeID

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeBookingNotAllowed)
}

func TestExecute_CacheHitSkipsComputation(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)
	env.cache.stored = &Response{
		Date:       "2025-06-02",
		BusinessID: 1,
		ServiceID:  10,
		Available:  true,
		TotalSlots: 14,
	}

	resp, err := env.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 14, resp.TotalSlots)
	assert.Equal(t, 0, env.appointments.calls, "cache hit must not touch storage")
	assert.Empty(t, env.cache.setKeys)
}

func TestExecute_CacheMissComputesAndStores(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)

	resp, err := env.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 14, resp.TotalSlots)
	assert.Equal(t, 1, env.appointments.calls)

	require.Len(t, env.cache.setKeys, 1)
	key := env.cache.setKeys[0]
	assert.Equal(t, int64(1), key.BusinessID)
	assert.Equal(t, int64(10), key.ServiceID)
	assert.Nil(t, key.EmployeeID)
	assert.Equal(t, "2025-06-02", key.Date)
}

func TestExecute_CacheFailureFallsBackToComputation(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)
	env.cache.getErr = cache.ErrCacheUnavailable

	resp, err := env.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 14, resp.TotalSlots)
	assert.Equal(t, 1, env.appointments.calls)
}

func TestExecute_PreviewBypassesCache(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)
	env.cache.stored = &Response{TotalSlots: 99}

	req := validRequest()
	req.AllowPastSlots = true
	req.UserID = 100 // владелец

	resp, err := env.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 14, resp.TotalSlots)
	assert.Empty(t, env.cache.getKeys, "preview must not read the public cache")
	assert.Empty(t, env.cache.setKeys, "preview must not be cached")
}

func TestExecute_PreviewDeniedForNonOwner(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)

	req := validRequest()
	req.AllowPastSlots = true
	req.UserID = 200

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_PreviewIncludesPastDate(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)

	req := validRequest()
	req.Date = testMonday.AddDate(0, 0, -7)
	req.AllowPastSlots = true
	req.UserID = 100

	resp, err := env.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Equal(t, 14, resp.TotalSlots)
}

func TestExecute_EmployeeScheduleReplacesBusiness(t *testing.T) {
	env := newTestEnv(testBusiness(), testService(), mondaySchedule(), testNow)
	employeeID := int64(5)
	env.businesses.employee = &domain.Employee{ID: 5, BusinessID: 1, IsActive: true}
	env.schedules.employeeSet = &domain.ScheduleSet{
		Rules: []*domain.WeeklyRule{
			{
				BusinessID:  1,
				EmployeeID:  &employeeID,
				DayOfWeek:   1,
				StartTime:   ts("10:00"),
				EndTime:     ts("12:00"),
				IsAvailable: true,
			},
		},
	}

	req := validRequest()
	req.EmployeeID = &employeeID

	resp, err := env.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	// Правила сотрудника полностью замещают бизнес: 10:00-12:00 -> 4 слота
	assert.Equal(t, 4, resp.TotalSlots)
	assert.Equal(t, ts("10:00"), resp.Slots[0].StartTime)
}
