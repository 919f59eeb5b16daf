package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termini-mk/AvailabilityService/pkg/types"
)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name     string
		windows  []Window
		duration int
		step     int
		want     []Candidate
	}{
		{
			name:     "single window exact fit",
			windows:  []Window{{Start: "09:00", End: "11:00"}},
			duration: 30,
			step:     30,
			want: []Candidate{
				{Start: "09:00", End: "09:30"},
				{Start: "09:30", End: "10:00"},
				{Start: "10:00", End: "10:30"},
				{Start: "10:30", End: "11:00"},
			},
		},
		{
			name:     "duration longer than step overlapping candidates",
			windows:  []Window{{Start: "09:00", End: "10:30"}},
			duration: 60,
			step:     30,
			want: []Candidate{
				{Start: "09:00", End: "10:00"},
				{Start: "09:30", End: "10:30"},
			},
		},
		{
			name:     "tail shorter than duration dropped",
			windows:  []Window{{Start: "09:00", End: "10:45"}},
			duration: 30,
			step:     30,
			want: []Candidate{
				{Start: "09:00", End: "09:30"},
				{Start: "09:30", End: "10:00"},
				{Start: "10:00", End: "10:30"},
			},
		},
		{
			name:     "duration does not fit window",
			windows:  []Window{{Start: "09:00", End: "09:45"}},
			duration: 60,
			step:     30,
			want:     []Candidate{},
		},
		{
			name: "two windows concatenated chronologically",
			windows: []Window{
				{Start: "09:00", End: "10:00"},
				{Start: "13:00", End: "14:00"},
			},
			duration: 30,
			step:     30,
			want: []Candidate{
				{Start: "09:00", End: "09:30"},
				{Start: "09:30", End: "10:00"},
				{Start: "13:00", End: "13:30"},
				{Start: "13:30", End: "14:00"},
			},
		},
		{
			name:     "step 15 duration 30",
			windows:  []Window{{Start: "09:00", End: "10:00"}},
			duration: 30,
			step:     15,
			want: []Candidate{
				{Start: "09:00", End: "09:30"},
				{Start: "09:15", End: "09:45"},
				{Start: "09:30", End: "10:00"},
			},
		},
		{
			name:     "window ending at midnight",
			windows:  []Window{{Start: "23:00", End: "24:00"}},
			duration: 30,
			step:     30,
			want: []Candidate{
				{Start: "23:00", End: "23:30"},
				{Start: "23:30", End: "24:00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlots(tt.windows, tt.duration, tt.step)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateSlots_InvalidInputs(t *testing.T) {
	windows := []Window{{Start: "09:00", End: "17:00"}}

	assert.Nil(t, GenerateSlots(windows, 0, 30))
	assert.Nil(t, GenerateSlots(windows, -30, 30))
	assert.Nil(t, GenerateSlots(windows, 30, 0))
	assert.Empty(t, GenerateSlots(nil, 30, 30))
}

func TestSubtractBreaks(t *testing.T) {
	working := Window{Start: "09:00", End: "17:00"}

	tests := []struct {
		name   string
		breaks []Window
		want   []Window
	}{
		{
			name:   "no breaks",
			breaks: nil,
			want:   []Window{working},
		},
		{
			name:   "single break in the middle",
			breaks: []Window{{Start: "12:00", End: "13:00"}},
			want: []Window{
				{Start: "09:00", End: "12:00"},
				{Start: "13:00", End: "17:00"},
			},
		},
		{
			name: "unsorted breaks",
			breaks: []Window{
				{Start: "15:00", End: "15:30"},
				{Start: "12:00", End: "13:00"},
			},
			want: []Window{
				{Start: "09:00", End: "12:00"},
				{Start: "13:00", End: "15:00"},
				{Start: "15:30", End: "17:00"},
			},
		},
		{
			name: "overlapping breaks merge",
			breaks: []Window{
				{Start: "12:00", End: "13:00"},
				{Start: "12:30", End: "14:00"},
			},
			want: []Window{
				{Start: "09:00", End: "12:00"},
				{Start: "14:00", End: "17:00"},
			},
		},
		{
			name:   "break at window start",
			breaks: []Window{{Start: "09:00", End: "10:00"}},
			want:   []Window{{Start: "10:00", End: "17:00"}},
		},
		{
			name:   "break at window end",
			breaks: []Window{{Start: "16:00", End: "17:00"}},
			want:   []Window{{Start: "09:00", End: "16:00"}},
		},
		{
			name:   "break outside window ignored",
			breaks: []Window{{Start: "18:00", End: "19:00"}},
			want:   []Window{working},
		},
		{
			name:   "break covers whole window",
			breaks: []Window{{Start: "08:00", End: "18:00"}},
			want:   []Window{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := subtractBreaks(working, tt.breaks)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindow_ContainsAndOverlaps(t *testing.T) {
	w := Window{Start: "09:00", End: "12:00"}

	require.True(t, w.Contains("09:00", "12:00"))
	require.True(t, w.Contains("10:00", "10:30"))
	assert.False(t, w.Contains("08:30", "09:30"))
	assert.False(t, w.Contains("11:30", "12:30"))

	assert.True(t, w.Overlaps("11:30", "12:30"))
	assert.True(t, w.Overlaps("08:00", "09:30"))
	// Граничащие интервалы пересечением не считаются
	assert.False(t, w.Overlaps("12:00", "13:00"))
	assert.False(t, w.Overlaps("08:00", "09:00"))

	assert.Equal(t, 180, w.DurationMinutes())
}

func TestGenerateSlots_SlotsStayWithinWindows(t *testing.T) {
	windows := subtractBreaks(
		Window{Start: "09:00", End: "17:00"},
		[]Window{{Start: "12:00", End: "13:00"}},
	)

	candidates := GenerateSlots(windows, 45, 30)
	require.NotEmpty(t, candidates)

	for _, c := range candidates {
		inside := false
		for _, w := range windows {
			if w.Contains(c.Start, c.End) {
				inside = true
				break
			}
		}
		assert.True(t, inside, "candidate %s-%s escapes open windows", c.Start, c.End)
	}

	var midnight types.TimeString = "24:00"
	for _, c := range candidates {
		assert.False(t, c.End.IsAfter(midnight))
	}
}
