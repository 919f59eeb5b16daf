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

func validateParams(start types.TimeString, appointments ...*domain.Appointment) ValidateParams {
	return ValidateParams{
		Business:     singleBusiness(),
		Service:      service30(),
		Scope:        Scope{Business: &domain.ScheduleSet{Rules: []*domain.WeeklyRule{mondayRuleWithLunch()}}},
		Appointments: appointments,
		Date:         monday,
		StartTime:    start,
		Now:          sundayMorning,
	}
}

func TestValidateSlot_OK(t *testing.T) {
	res := ValidateSlot(validateParams("10:00"))

	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Nil(t, res.SpotsLeft)
}

func TestValidateSlot_ClosedDay(t *testing.T) {
	p := validateParams("10:00")
	p.Date = tuesday

	res := ValidateSlot(p)

	assert.Equal(t, OutcomeClosed, res.Outcome)
	assert.Equal(t, ReasonClosed, res.Reason)
}

func TestValidateSlot_SpecialDateReasonPropagates(t *testing.T) {
	p := validateParams("10:00")
	p.Scope.Business.SpecialDates = []*domain.SpecialDate{{
		BusinessID: 1, Date: monday, IsAvailable: false, Reason: ptr.Ptr("Holiday"),
	}}

	res := ValidateSlot(p)

	assert.Equal(t, OutcomeClosed, res.Outcome)
	assert.Equal(t, "Holiday", res.Reason)
}

func TestValidateSlot_OutsideWorkingHours(t *testing.T) {
	tests := []struct {
		name  string
		start types.TimeString
	}{
		{"before opening", "08:00"},
		{"crosses closing", "16:45"},
		{"inside break", "12:00"},
		{"crosses into break", "11:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateSlot(validateParams(tt.start))

			assert.Equal(t, OutcomeClosed, res.Outcome)
			assert.Equal(t, ReasonOutsideWorkingHours, res.Reason)
		})
	}
}

func TestValidateSlot_MisalignedStart(t *testing.T) {
	// 10:15 внутри окна, но не на сетке 30 минут от 09:00
	res := ValidateSlot(validateParams("10:15"))

	assert.Equal(t, OutcomeMisaligned, res.Outcome)
}

func TestValidateSlot_AlignmentCountsFromWindowStart(t *testing.T) {
	// После перерыва сетка идёт от 13:00, а не от 09:00
	res := ValidateSlot(validateParams("13:30"))
	assert.Equal(t, OutcomeOK, res.Outcome)

	res = ValidateSlot(validateParams("13:15"))
	assert.Equal(t, OutcomeMisaligned, res.Outcome)
}

func TestValidateSlot_ConflictSingleMode(t *testing.T) {
	res := ValidateSlot(validateParams("10:00",
		appointment("10:00", 30, domain.StatusConfirmed)))

	assert.Equal(t, OutcomeConflict, res.Outcome)
}

func TestValidateSlot_OverlapFromLongerAppointment(t *testing.T) {
	// Запись 09:30-10:30 пересекает запрошенный слот 10:00-10:30
	res := ValidateSlot(validateParams("10:00",
		appointment("09:30", 60, domain.StatusPending)))

	assert.Equal(t, OutcomeConflict, res.Outcome)
}

func TestValidateSlot_CancelledDoesNotConflict(t *testing.T) {
	res := ValidateSlot(validateParams("10:00",
		appointment("10:00", 30, domain.StatusCancelled)))

	assert.Equal(t, OutcomeOK, res.Outcome)
}

func TestValidateSlot_MultipleModeSpotsLeft(t *testing.T) {
	p := validateParams("10:00",
		appointment("10:00", 30, domain.StatusConfirmed))
	p.Business.CapacityMode = domain.CapacityModeMultiple
	p.Business.DefaultCapacity = ptr.Ptr(3)

	res := ValidateSlot(p)

	require.Equal(t, OutcomeOK, res.Outcome)
	require.NotNil(t, res.SpotsLeft)
	assert.Equal(t, 2, *res.SpotsLeft)
}

func TestValidateSlot_MultipleModeFull(t *testing.T) {
	p := validateParams("10:00",
		appointment("10:00", 30, domain.StatusConfirmed),
		appointment("10:00", 30, domain.StatusPending))
	p.Business.CapacityMode = domain.CapacityModeMultiple
	p.Business.DefaultCapacity = ptr.Ptr(2)

	res := ValidateSlot(p)

	assert.Equal(t, OutcomeConflict, res.Outcome)
}

func TestValidateSlot_PastDate(t *testing.T) {
	p := validateParams("10:00")
	p.Now = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	res := ValidateSlot(p)

	assert.Equal(t, OutcomePastSlot, res.Outcome)
}

func TestValidateSlot_PastTimeToday(t *testing.T) {
	p := validateParams("10:00")
	p.Now = time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)

	res := ValidateSlot(p)

	assert.Equal(t, OutcomePastSlot, res.Outcome)
}

func TestValidateSlot_AllowPastSlotsBypassesTimeChecks(t *testing.T) {
	p := validateParams("10:00")
	p.Now = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	p.AllowPastSlots = true

	res := ValidateSlot(p)

	assert.Equal(t, OutcomeOK, res.Outcome)
}

func TestValidateSlot_ServiceCustomCapacityOverridesBusiness(t *testing.T) {
	p := validateParams("10:00",
		appointment("10:00", 30, domain.StatusConfirmed))
	p.Business.CapacityMode = domain.CapacityModeMultiple
	p.Business.DefaultCapacity = ptr.Ptr(1)
	p.Service.CustomCapacity = ptr.Ptr(5)

	res := ValidateSlot(p)

	require.Equal(t, OutcomeOK, res.Outcome)
	require.NotNil(t, res.SpotsLeft)
	assert.Equal(t, 4, *res.SpotsLeft)
}
