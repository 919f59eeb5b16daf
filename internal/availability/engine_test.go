package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/ptr"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

// Понедельник 2025-06-02, таймзона UTC
var (
	monday  = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	// "Сейчас" — воскресенье накануне, чтобы ни один слот не был в прошлом
	sundayMorning = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
)

func singleBusiness() *domain.Business {
	return &domain.Business{
		ID:                         1,
		Name:                       "Barbershop Centar",
		CapacityMode:               domain.CapacityModeSingle,
		DefaultSlotIntervalMinutes: 30,
		Timezone:                   "UTC",
	}
}

func service30() *domain.Service {
	return &domain.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Haircut",
		DurationMinutes: 30,
		IsActive:        true,
	}
}

// Правило: понедельник 09:00-17:00 с перерывом 12:00-13:00
func mondayRuleWithLunch() *domain.WeeklyRule {
	return &domain.WeeklyRule{
		ID:          1,
		BusinessID:  1,
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "17:00",
		IsAvailable: true,
		Breaks: []domain.Break{
			{ID: 1, RuleID: 1, StartTime: "12:00", EndTime: "13:00"},
		},
	}
}

func appointment(start types.TimeString, duration int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              100,
		BusinessID:      1,
		ServiceID:       10,
		UserID:          7,
		Date:            monday,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestComputeDay_MondayWithLunchBreak(t *testing.T) {
	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope:    Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Date:     monday,
		Now:      sundayMorning,
	})

	require.True(t, result.Available)
	// 09:00-12:00 даёт 6 слотов, 13:00-17:00 даёт 8 (16:30+30 <= 17:00)
	require.Len(t, result.Slots, 14)
	assert.Equal(t, 14, result.TotalSlots)

	expected := []types.TimeString{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
	}
	for i, slot := range result.Slots {
		assert.Equal(t, expected[i], slot.Start, "slot %d", i)
		assert.True(t, slot.Available, "slot %s must be available", slot.Start)
		assert.False(t, slot.IsPast)
	}

	require.Len(t, result.WorkingHours, 1)
	assert.Equal(t, Window{Start: "09:00", End: "17:00"}, result.WorkingHours[0])
	require.Len(t, result.Breaks, 1)
	assert.Equal(t, Window{Start: "12:00", End: "13:00"}, result.Breaks[0])
}

func TestComputeDay_ConfirmedAppointmentBlocksExactlyOneSlot(t *testing.T) {
	result := ComputeDay(DayParams{
		Business:     singleBusiness(),
		Service:      service30(),
		Scope:        Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Appointments: []*domain.Appointment{appointment("10:00", 30, domain.StatusConfirmed)},
		Date:         monday,
		Now:          sundayMorning,
	})

	require.True(t, result.Available)
	require.Len(t, result.Slots, 14)

	for _, slot := range result.Slots {
		if slot.Start == "10:00" {
			assert.False(t, slot.Available, "booked slot must be unavailable")
		} else {
			assert.True(t, slot.Available, "slot %s must stay available", slot.Start)
		}
	}
}

func TestComputeDay_CancelledAndNoShowDoNotBlock(t *testing.T) {
	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope:    Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Appointments: []*domain.Appointment{
			appointment("10:00", 30, domain.StatusCancelled),
			appointment("11:00", 30, domain.StatusNoShow),
		},
		Date: monday,
		Now:  sundayMorning,
	})

	require.True(t, result.Available)
	for _, slot := range result.Slots {
		assert.True(t, slot.Available, "slot %s must be available", slot.Start)
	}
}

func TestComputeDay_CompletedStillBlocksSameDay(t *testing.T) {
	result := ComputeDay(DayParams{
		Business:       singleBusiness(),
		Service:        service30(),
		Scope:          Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Appointments:   []*domain.Appointment{appointment("09:00", 30, domain.StatusCompleted)},
		Date:           monday,
		Now:            time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC),
		AllowPastSlots: true,
	})

	require.True(t, result.Available)
	assert.False(t, result.Slots[0].Available, "completed appointment occupies its window")
}

func TestComputeDay_SpecialDateClosedOverridesWeeklyRule(t *testing.T) {
	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope: Scope{Business: &domain.ScheduleSet{
			Rules: []*domain.WeeklyRule{mondayRuleWithLunch()},
			SpecialDates: []*domain.SpecialDate{{
				BusinessID:  1,
				Date:        monday,
				IsAvailable: false,
				Reason:      ptr.Ptr("Holiday"),
			}},
		}},
		Appointments: []*domain.Appointment{appointment("10:00", 30, domain.StatusConfirmed)},
		Date:         monday,
		Now:          sundayMorning,
	})

	assert.False(t, result.Available)
	assert.Equal(t, "Holiday", result.Reason)
	assert.Empty(t, result.Slots)
}

func TestComputeDay_SpecialDateCustomHoursReplaceWeeklyHours(t *testing.T) {
	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope: Scope{Business: &domain.ScheduleSet{
			Rules: []*domain.WeeklyRule{mondayRuleWithLunch()},
			SpecialDates: []*domain.SpecialDate{{
				BusinessID:  1,
				Date:        monday,
				IsAvailable: true,
				StartTime:   ptr.Ptr(types.TimeString("10:00")),
				EndTime:     ptr.Ptr(types.TimeString("12:00")),
			}},
		}},
		Date: monday,
		Now:  sundayMorning,
	})

	require.True(t, result.Available)
	// Особая дата задаёт свои часы, перерыв еженедельного правила игнорируется
	require.Len(t, result.Slots, 4)
	assert.Equal(t, types.TimeString("10:00"), result.Slots[0].Start)
	assert.Equal(t, types.TimeString("11:30"), result.Slots[3].Start)
}

func TestComputeDay_NoRuleMeansClosed(t *testing.T) {
	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope:    Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Date:     tuesday,
		Now:      sundayMorning,
	})

	assert.False(t, result.Available)
	assert.Equal(t, ReasonClosed, result.Reason)
}

func TestComputeDay_PastDate(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope:    Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Date:     monday,
		Now:      now,
	})

	assert.False(t, result.Available)
	assert.Equal(t, ReasonPastDate, result.Reason)

	// С allowPastSlots прошедшая дата считается полноценно
	allowed := ComputeDay(DayParams{
		Business:       singleBusiness(),
		Service:        service30(),
		Scope:          Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Date:           monday,
		Now:            now,
		AllowPastSlots: true,
	})
	assert.True(t, allowed.Available)
	assert.Len(t, allowed.Slots, 14)
}

func TestComputeDay_PastSlotsFilteredToday(t *testing.T) {
	// Сейчас понедельник 11:00: слоты 09:00-11:00 в прошлом
	now := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)

	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope:    Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Date:     monday,
		Now:      now,
	})

	require.True(t, result.Available)
	for _, slot := range result.Slots {
		if !slot.Start.IsAfter("11:00") {
			assert.False(t, slot.Available, "slot %s starts at or before now", slot.Start)
			assert.True(t, slot.IsPast)
		} else {
			assert.True(t, slot.Available, "slot %s is in the future", slot.Start)
			assert.False(t, slot.IsPast)
		}
	}
}

func TestComputeDay_ServiceTooLongForAnyWindow(t *testing.T) {
	longService := service30()
	longService.DurationMinutes = 300 // 5 часов не помещаются ни в 3, ни в 4-часовое окно

	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  longService,
		Scope:    Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Date:     monday,
		Now:      sundayMorning,
	})

	assert.False(t, result.Available)
	assert.Equal(t, ReasonNoFittingWindow, result.Reason)
}

func TestComputeDay_MultipleCapacitySpotsLeft(t *testing.T) {
	business := singleBusiness()
	business.CapacityMode = domain.CapacityModeMultiple
	business.DefaultCapacity = ptr.Ptr(2)

	result := ComputeDay(DayParams{
		Business: business,
		Service:  service30(),
		Scope:    Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Appointments: []*domain.Appointment{
			appointment("10:00", 30, domain.StatusConfirmed),
			appointment("11:00", 30, domain.StatusConfirmed),
			appointment("11:00", 30, domain.StatusPending),
		},
		Date: monday,
		Now:  sundayMorning,
	})

	require.True(t, result.Available)

	byStart := map[types.TimeString]Slot{}
	for _, s := range result.Slots {
		byStart[s.Start] = s
	}

	require.NotNil(t, byStart["10:00"].SpotsLeft)
	assert.Equal(t, 1, *byStart["10:00"].SpotsLeft)
	assert.True(t, byStart["10:00"].Available)

	require.NotNil(t, byStart["11:00"].SpotsLeft)
	assert.Equal(t, 0, *byStart["11:00"].SpotsLeft)
	assert.False(t, byStart["11:00"].Available)

	require.NotNil(t, byStart["09:00"].SpotsLeft)
	assert.Equal(t, 2, *byStart["09:00"].SpotsLeft)
}

func TestComputeDay_UnlimitedCapacityOmitsSpotsLeft(t *testing.T) {
	business := singleBusiness()
	business.CapacityMode = domain.CapacityModeMultiple
	business.DefaultCapacity = nil

	result := ComputeDay(DayParams{
		Business:     business,
		Service:      service30(),
		Scope:        Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Appointments: []*domain.Appointment{appointment("10:00", 30, domain.StatusConfirmed)},
		Date:         monday,
		Now:          sundayMorning,
	})

	require.True(t, result.Available)
	for _, slot := range result.Slots {
		assert.Nil(t, slot.SpotsLeft)
		assert.True(t, slot.Available)
	}
}

func TestComputeDay_Idempotent(t *testing.T) {
	params := DayParams{
		Business:     singleBusiness(),
		Service:      service30(),
		Scope:        Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Appointments: []*domain.Appointment{appointment("10:00", 30, domain.StatusConfirmed)},
		Date:         monday,
		Now:          sundayMorning,
	}

	first := ComputeDay(params)
	second := ComputeDay(params)

	assert.Equal(t, first, second)
}

func TestComputeRange_ClosedTuesdayBetweenOpenDays(t *testing.T) {
	// Правила на понедельник и среду; вторник без правила и без особой даты
	wednesdayRule := mondayRuleWithLunch()
	wednesdayRule.ID = 2
	wednesdayRule.DayOfWeek = 3
	wednesdayRule.Breaks = nil

	wednesday := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	results := ComputeRange(RangeParams{
		Business:  singleBusiness(),
		Service:   service30(),
		Scope:     Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch(), wednesdayRule}}},
		StartDate: monday,
		EndDate:   wednesday,
		Now:       sundayMorning,
	})

	require.Len(t, results, 3)

	assert.True(t, results[0].Available)
	assert.Equal(t, monday, results[0].Date)

	assert.False(t, results[1].Available)
	assert.Equal(t, ReasonClosed, results[1].Reason)

	assert.True(t, results[2].Available)
	assert.Equal(t, 16, results[2].TotalSlots) // 09:00-17:00 без перерыва
}

func TestComputeRange_ParallelMatchesSequential(t *testing.T) {
	endDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	params := RangeParams{
		Business:     singleBusiness(),
		Service:      service30(),
		Scope:        Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		StartDate:    monday,
		EndDate:      endDate,
		Now:          sundayMorning,
		AppointmentsByDate: map[string][]*domain.Appointment{
			monday.Format(domain.DateFormat): {appointment("10:00", 30, domain.StatusConfirmed)},
		},
	}

	sequential := ComputeRange(params)

	params.Parallelism = 4
	parallel := ComputeRange(params)

	assert.Equal(t, sequential, parallel)
}

func TestComputeDay_EmployeeInheritsBusinessScheduleWhenNotCustomized(t *testing.T) {
	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope: Scope{
			Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}},
			Employee: &domain.ScheduleSet{}, // сотрудник без кастомизации
		},
		Date: monday,
		Now:  sundayMorning,
	})

	require.True(t, result.Available)
	assert.Len(t, result.Slots, 14)
}

func TestComputeDay_EmployeeRulesFullyReplaceBusinessRules(t *testing.T) {
	employeeRule := &domain.WeeklyRule{
		ID:          5,
		BusinessID:  1,
		EmployeeID:  ptr.Ptr(int64(42)),
		DayOfWeek:   1,
		StartTime:   "14:00",
		EndTime:     "16:00",
		IsAvailable: true,
	}

	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope: Scope{
			Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}},
			Employee: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{employeeRule}},
		},
		Date: monday,
		Now:  sundayMorning,
	})

	require.True(t, result.Available)
	// Окно сотрудника 14:00-16:00: правила бизнеса (и их перерывы) не сливаются
	require.Len(t, result.Slots, 4)
	assert.Equal(t, types.TimeString("14:00"), result.Slots[0].Start)
	assert.Equal(t, types.TimeString("15:30"), result.Slots[3].Start)
}

func TestComputeDay_BreakExclusion(t *testing.T) {
	result := ComputeDay(DayParams{
		Business: singleBusiness(),
		Service:  service30(),
		Scope:    Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Date:     monday,
		Now:      sundayMorning,
	})

	require.True(t, result.Available)
	for _, slot := range result.Slots {
		// Ни один кандидат не пересекает перерыв 12:00-13:00
		overlaps := slot.Start.IsBefore("13:00") && types.TimeString("12:00").IsBefore(slot.End)
		assert.False(t, overlaps, "slot %s-%s intersects the break", slot.Start, slot.End)
	}
}
