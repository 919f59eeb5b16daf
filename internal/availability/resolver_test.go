package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/ptr"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

func businessScope(rules []*domain.WeeklyRule, specials []*domain.SpecialDate) Scope {
	return Scope{Business: &domain.ScheduleSet{Rules: rules, SpecialDates: specials}}
}

func TestResolveWindows_WeeklyRuleWithBreak(t *testing.T) {
	res := ResolveWindows(businessScope([]*domain.WeeklyRule{mondayRuleWithLunch()}, nil), monday)

	require.True(t, res.Open)
	assert.Equal(t, []Window{
		{Start: "09:00", End: "12:00"},
		{Start: "13:00", End: "17:00"},
	}, res.Windows)
	assert.Equal(t, []Window{{Start: "09:00", End: "17:00"}}, res.WorkingHours)
	assert.Equal(t, []Window{{Start: "12:00", End: "13:00"}}, res.Breaks)
}

func TestResolveWindows_NoRuleForDay(t *testing.T) {
	res := ResolveWindows(businessScope([]*domain.WeeklyRule{mondayRuleWithLunch()}, nil), tuesday)

	assert.False(t, res.Open)
	assert.Equal(t, ReasonClosed, res.Reason)
}

func TestResolveWindows_ClosingRule(t *testing.T) {
	rule := mondayRuleWithLunch()
	rule.IsAvailable = false

	res := ResolveWindows(businessScope([]*domain.WeeklyRule{rule}, nil), monday)

	assert.False(t, res.Open)
	assert.Equal(t, ReasonClosed, res.Reason)
}

func TestResolveWindows_MultipleShiftsSameDay(t *testing.T) {
	morning := &domain.WeeklyRule{
		ID: 1, BusinessID: 1, DayOfWeek: 1,
		StartTime: "09:00", EndTime: "13:00", IsAvailable: true,
	}
	evening := &domain.WeeklyRule{
		ID: 2, BusinessID: 1, DayOfWeek: 1,
		StartTime: "16:00", EndTime: "20:00", IsAvailable: true,
		Breaks: []domain.Break{{RuleID: 2, StartTime: "18:00", EndTime: "18:30"}},
	}

	res := ResolveWindows(businessScope([]*domain.WeeklyRule{evening, morning}, nil), monday)

	require.True(t, res.Open)
	assert.Equal(t, []Window{
		{Start: "09:00", End: "13:00"},
		{Start: "16:00", End: "18:00"},
		{Start: "18:30", End: "20:00"},
	}, res.Windows)
}

func TestResolveWindows_SpecialDateClosedWithReason(t *testing.T) {
	special := &domain.SpecialDate{
		BusinessID: 1, Date: monday, IsAvailable: false, Reason: ptr.Ptr("Holiday"),
	}

	res := ResolveWindows(businessScope([]*domain.WeeklyRule{mondayRuleWithLunch()}, []*domain.SpecialDate{special}), monday)

	assert.False(t, res.Open)
	assert.Equal(t, "Holiday", res.Reason)
}

func TestResolveWindows_SpecialDateClosedWithoutReason(t *testing.T) {
	special := &domain.SpecialDate{BusinessID: 1, Date: monday, IsAvailable: false}

	res := ResolveWindows(businessScope([]*domain.WeeklyRule{mondayRuleWithLunch()}, []*domain.SpecialDate{special}), monday)

	assert.False(t, res.Open)
	assert.Equal(t, ReasonClosed, res.Reason)
}

func TestResolveWindows_SpecialDateCustomHours(t *testing.T) {
	special := &domain.SpecialDate{
		BusinessID:  1,
		Date:        monday,
		IsAvailable: true,
		StartTime:   ptr.Ptr(types.TimeString("10:00")),
		EndTime:     ptr.Ptr(types.TimeString("14:00")),
	}

	res := ResolveWindows(businessScope([]*domain.WeeklyRule{mondayRuleWithLunch()}, []*domain.SpecialDate{special}), monday)

	require.True(t, res.Open)
	// Часы особой даты замещают еженедельные, перерывы правила не применяются
	assert.Equal(t, []Window{{Start: "10:00", End: "14:00"}}, res.Windows)
	assert.Empty(t, res.Breaks)
}

func TestResolveWindows_SpecialDateOpenWithoutHoursDefersToWeekly(t *testing.T) {
	special := &domain.SpecialDate{BusinessID: 1, Date: monday, IsAvailable: true}

	res := ResolveWindows(businessScope([]*domain.WeeklyRule{mondayRuleWithLunch()}, []*domain.SpecialDate{special}), monday)

	require.True(t, res.Open)
	assert.Equal(t, []Window{
		{Start: "09:00", End: "12:00"},
		{Start: "13:00", End: "17:00"},
	}, res.Windows)
}

func TestResolveWindows_SpecialDateOpenWithoutHoursAndNoWeeklyRule(t *testing.T) {
	special := &domain.SpecialDate{BusinessID: 1, Date: tuesday, IsAvailable: true}

	res := ResolveWindows(businessScope([]*domain.WeeklyRule{mondayRuleWithLunch()}, []*domain.SpecialDate{special}), tuesday)

	// Открытие без собственных часов при закрытом дне недели даты не открывает
	assert.False(t, res.Open)
	assert.Equal(t, ReasonClosed, res.Reason)
}

func TestResolveWindows_EmployeeOverrideWinsOverBusinessSpecialDate(t *testing.T) {
	businessSpecial := &domain.SpecialDate{
		BusinessID: 1, Date: monday, IsAvailable: false, Reason: ptr.Ptr("Holiday"),
	}
	employeeRule := &domain.WeeklyRule{
		ID: 5, BusinessID: 1, EmployeeID: ptr.Ptr(int64(42)),
		DayOfWeek: 1, StartTime: "10:00", EndTime: "15:00", IsAvailable: true,
	}

	scope := Scope{
		Business: &domain.ScheduleSet{
			Rules:        []*domain.WeeklyRule{mondayRuleWithLunch()},
			SpecialDates: []*domain.SpecialDate{businessSpecial},
		},
		Employee: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{employeeRule}},
	}

	res := ResolveWindows(scope, monday)

	// Кастомизированный сотрудник замещает расписание бизнеса целиком,
	// включая особые даты бизнеса
	require.True(t, res.Open)
	assert.Equal(t, []Window{{Start: "10:00", End: "15:00"}}, res.Windows)
}

func TestResolveWindows_EmployeeSpecialDateBeatsEmployeeWeeklyRule(t *testing.T) {
	employeeRule := &domain.WeeklyRule{
		ID: 5, BusinessID: 1, EmployeeID: ptr.Ptr(int64(42)),
		DayOfWeek: 1, StartTime: "10:00", EndTime: "15:00", IsAvailable: true,
	}
	employeeSpecial := &domain.SpecialDate{
		BusinessID: 1, EmployeeID: ptr.Ptr(int64(42)),
		Date: monday, IsAvailable: false, Reason: ptr.Ptr("Vacation"),
	}

	scope := Scope{
		Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}},
		Employee: &domain.ScheduleSet{
			Rules:        []*domain.WeeklyRule{employeeRule},
			SpecialDates: []*domain.SpecialDate{employeeSpecial},
		},
	}

	res := ResolveWindows(scope, monday)

	assert.False(t, res.Open)
	assert.Equal(t, "Vacation", res.Reason)
}

func TestResolveWindows_EmptyEmployeeSetInheritsBusiness(t *testing.T) {
	scope := Scope{
		Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}},
		Employee: &domain.ScheduleSet{},
	}

	res := ResolveWindows(scope, monday)

	require.True(t, res.Open)
	assert.Equal(t, []Window{
		{Start: "09:00", End: "12:00"},
		{Start: "13:00", End: "17:00"},
	}, res.Windows)
}
