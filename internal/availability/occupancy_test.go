package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termini-mk/AvailabilityService/internal/domain"
	"github.com/termini-mk/AvailabilityService/pkg/ptr"
	"github.com/termini-mk/AvailabilityService/pkg/types"
)

func candidates30(starts ...types.TimeString) []Candidate {
	result := make([]Candidate, 0, len(starts))
	for _, s := range starts {
		end, _ := s.AddMinutes(30)
		result = append(result, Candidate{Start: s, End: end})
	}
	return result
}

func appt(start types.TimeString, duration int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestAnnotate_SingleMode(t *testing.T) {
	slots := Annotate(candidates30("09:00", "09:30", "10:00"), OccupancyParams{
		CapacityMode: domain.CapacityModeSingle,
		Capacity:     ptr.Ptr(1),
		Appointments: []*domain.Appointment{appt("09:30", 30, domain.StatusConfirmed)},
	})

	require.Len(t, slots, 3)
	assert.True(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.True(t, slots[2].Available)

	for _, s := range slots {
		assert.Nil(t, s.SpotsLeft, "single mode does not report spotsLeft")
	}
}

func TestAnnotate_LongAppointmentBlocksEveryOverlappingSlot(t *testing.T) {
	// Запись 09:00-10:30 пересекает три получасовых кандидата
	slots := Annotate(candidates30("09:00", "09:30", "10:00", "10:30"), OccupancyParams{
		CapacityMode: domain.CapacityModeSingle,
		Capacity:     ptr.Ptr(1),
		Appointments: []*domain.Appointment{appt("09:00", 90, domain.StatusConfirmed)},
	})

	assert.False(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.False(t, slots[2].Available)
	// Граница 10:30 пересечением не считается
	assert.True(t, slots[3].Available)
}

func TestAnnotate_BoundaryTouchIsNotOverlap(t *testing.T) {
	slots := Annotate(candidates30("10:00"), OccupancyParams{
		CapacityMode: domain.CapacityModeSingle,
		Capacity:     ptr.Ptr(1),
		Appointments: []*domain.Appointment{
			appt("09:30", 30, domain.StatusConfirmed), // заканчивается ровно в 10:00
			appt("10:30", 30, domain.StatusConfirmed), // начинается ровно в 10:30
		},
	})

	assert.True(t, slots[0].Available)
}

func TestAnnotate_MultipleModeCapacityInvariant(t *testing.T) {
	appointments := []*domain.Appointment{
		appt("10:00", 30, domain.StatusConfirmed),
		appt("10:00", 30, domain.StatusPending),
		appt("10:00", 30, domain.StatusCancelled), // не блокирует
	}

	slots := Annotate(candidates30("10:00"), OccupancyParams{
		CapacityMode: domain.CapacityModeMultiple,
		Capacity:     ptr.Ptr(3),
		Appointments: appointments,
	})

	require.Len(t, slots, 1)
	require.NotNil(t, slots[0].SpotsLeft)
	// spotsLeft = capacity - blockingCount, отменённая запись не считается
	assert.Equal(t, 1, *slots[0].SpotsLeft)
	assert.True(t, slots[0].Available)
}

func TestAnnotate_MultipleModeOverbookedClampsToZero(t *testing.T) {
	appointments := []*domain.Appointment{
		appt("10:00", 30, domain.StatusConfirmed),
		appt("10:00", 30, domain.StatusConfirmed),
		appt("10:00", 30, domain.StatusConfirmed),
	}

	slots := Annotate(candidates30("10:00"), OccupancyParams{
		CapacityMode: domain.CapacityModeMultiple,
		Capacity:     ptr.Ptr(2),
		Appointments: appointments,
	})

	require.NotNil(t, slots[0].SpotsLeft)
	assert.Equal(t, 0, *slots[0].SpotsLeft)
	assert.False(t, slots[0].Available)
}

func TestAnnotate_NilCapacityIsUnlimited(t *testing.T) {
	appointments := []*domain.Appointment{
		appt("10:00", 30, domain.StatusConfirmed),
		appt("10:00", 30, domain.StatusConfirmed),
	}

	slots := Annotate(candidates30("10:00"), OccupancyParams{
		CapacityMode: domain.CapacityModeMultiple,
		Capacity:     nil,
		Appointments: appointments,
	})

	assert.True(t, slots[0].Available)
	assert.Nil(t, slots[0].SpotsLeft)
}

func TestAnnotate_PastSlotsToday(t *testing.T) {
	slots := Annotate(candidates30("09:00", "10:00", "11:00"), OccupancyParams{
		CapacityMode: domain.CapacityModeSingle,
		Capacity:     ptr.Ptr(1),
		Now:          "10:00",
		DateIsToday:  true,
	})

	// Слот, начинающийся ровно "сейчас", тоже прошедший
	assert.True(t, slots[0].IsPast)
	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].IsPast)
	assert.False(t, slots[1].Available)
	assert.False(t, slots[2].IsPast)
	assert.True(t, slots[2].Available)
}

func TestAnnotate_AllowPastSlotsSkipsTimeChecks(t *testing.T) {
	slots := Annotate(candidates30("09:00"), OccupancyParams{
		CapacityMode:   domain.CapacityModeSingle,
		Capacity:       ptr.Ptr(1),
		Now:            "12:00",
		DateIsToday:    true,
		AllowPastSlots: true,
	})

	assert.False(t, slots[0].IsPast)
	assert.True(t, slots[0].Available)
}

func TestAnnotate_MinBookingNotice(t *testing.T) {
	slots := Annotate(candidates30("10:00", "10:30", "11:00"), OccupancyParams{
		CapacityMode:  domain.CapacityModeSingle,
		Capacity:      ptr.Ptr(1),
		Now:           "09:00",
		DateIsToday:   true,
		EarliestStart: ptr.Ptr(types.TimeString("10:30")),
	})

	assert.False(t, slots[0].Available, "slot before the notice threshold")
	assert.True(t, slots[1].Available, "slot exactly at the threshold")
	assert.True(t, slots[2].Available)
}

func TestCountOverlapping(t *testing.T) {
	appointments := []*domain.Appointment{
		appt("09:00", 60, domain.StatusConfirmed),
		appt("09:30", 30, domain.StatusPending),
		appt("10:00", 30, domain.StatusConfirmed),
	}

	assert.Equal(t, 2, countOverlapping("09:30", "10:00", appointments))
	assert.Equal(t, 1, countOverlapping("10:00", "10:30", appointments))
	assert.Equal(t, 0, countOverlapping("10:30", "11:00", appointments))
}

func TestFilterBlocking(t *testing.T) {
	appointments := []*domain.Appointment{
		appt("09:00", 30, domain.StatusPending),
		appt("09:30", 30, domain.StatusConfirmed),
		appt("10:00", 30, domain.StatusCompleted),
		appt("10:30", 30, domain.StatusCancelled),
		appt("11:00", 30, domain.StatusNoShow),
	}

	blocking := filterBlocking(appointments)

	require.Len(t, blocking, 3)
	for _, a := range blocking {
		assert.True(t, a.IsBlocking())
	}
}
