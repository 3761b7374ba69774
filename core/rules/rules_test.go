package rules_test

import (
	"testing"
	"time"

	"calendar-agent/core/booking"
	"calendar-agent/core/calendar"
	"calendar-agent/core/identity"
	"calendar-agent/core/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detroit(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Detroit")
	require.NoError(t, err)
	return loc
}

func at(loc *time.Location, y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, loc)
}

func day(y int, m time.Month, d int) calendar.Date {
	return calendar.Date{Year: y, Month: m, Day: d}
}

func TestBuffersLodging(t *testing.T) {
	loc := detroit(t)
	got, err := rules.Buffers(booking.KindLodging, at(loc, 2025, 12, 3, 16, 0), at(loc, 2025, 12, 4, 11, 0))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, at(loc, 2025, 12, 3, 14, 0), got[0].Start)
	assert.Equal(t, at(loc, 2025, 12, 3, 16, 0), got[0].End)
	assert.Equal(t, rules.LabelCheckIn, got[0].Label)
	assert.Equal(t, identity.SlotCheckIn, got[0].Slot)

	assert.Equal(t, at(loc, 2025, 12, 4, 11, 0), got[1].Start)
	assert.Equal(t, at(loc, 2025, 12, 4, 13, 0), got[1].End)
	assert.Equal(t, rules.LabelTurnover, got[1].Label)
}

func TestBuffersEventAndPhotoshoot(t *testing.T) {
	loc := detroit(t)
	start, end := at(loc, 2025, 12, 1, 19, 0), at(loc, 2025, 12, 1, 22, 0)

	ev, err := rules.Buffers(booking.KindEvent, start, end)
	require.NoError(t, err)
	require.Len(t, ev, 1)
	assert.Equal(t, at(loc, 2025, 12, 1, 18, 0), ev[0].Start)
	assert.Equal(t, at(loc, 2025, 12, 2, 0, 0), ev[0].End)
	assert.Equal(t, rules.LabelEvent, ev[0].Label)

	ps, err := rules.Buffers(booking.KindPhotoshoot, start, end)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, at(loc, 2025, 12, 1, 18, 0), ps[0].Start)
	assert.Equal(t, at(loc, 2025, 12, 1, 23, 0), ps[0].End)
	assert.Equal(t, rules.LabelPhotoshoot, ps[0].Label)
}

func TestBuffersErrors(t *testing.T) {
	loc := detroit(t)
	start := at(loc, 2025, 12, 1, 19, 0)

	_, err := rules.Buffers(booking.Kind("concert"), start, start.Add(time.Hour))
	var kindErr *rules.UnknownBookingKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, booking.Kind("concert"), kindErr.Kind)

	_, err = rules.Buffers(booking.KindEvent, start, start)
	var winErr *rules.InvalidWindowError
	assert.ErrorAs(t, err, &winErr)

	_, err = rules.Buffers(booking.KindEvent, start, start.Add(-time.Hour))
	assert.ErrorAs(t, err, &winErr)
}

func TestBuffersNeverNonPositive(t *testing.T) {
	loc := detroit(t)
	start := at(loc, 2025, 3, 9, 1, 0)
	for _, kind := range []booking.Kind{booking.KindLodging, booking.KindEvent, booking.KindPhotoshoot} {
		for _, d := range []time.Duration{time.Minute, time.Hour, 26 * time.Hour} {
			ws, err := rules.Buffers(kind, start, start.Add(d))
			require.NoError(t, err)
			for _, w := range ws {
				assert.Positive(t, w.Duration())
			}
		}
	}
}

func TestOwned(t *testing.T) {
	k, err := identity.New(booking.SourceLodgingPlatform, booking.KindLodging, "HM1", day(2025, 12, 3))
	require.NoError(t, err)

	loc := detroit(t)
	ws, _ := rules.Buffers(booking.KindLodging, at(loc, 2025, 12, 3, 16, 0), at(loc, 2025, 12, 4, 11, 0))
	owned := rules.Owned(k, ws)
	assert.Equal(t, "ab|HM1|lodging|2025-12-03|checkin", owned[0].Key)
	assert.Equal(t, "ab|HM1|lodging|2025-12-03|turnover", owned[1].Key)
	assert.Empty(t, ws[0].Key)
}

func TestBlockDates(t *testing.T) {
	loc := detroit(t)
	e := rules.NewEngine(rules.DefaultPolicy(loc))

	tests := []struct {
		name       string
		start, end time.Time
		want       []calendar.Date
	}{
		{
			name:  "evening event blocks the same day only",
			start: at(loc, 2025, 12, 1, 19, 0),
			end:   at(loc, 2025, 12, 1, 22, 0),
			want:  []calendar.Date{day(2025, 12, 1)},
		},
		{
			name:  "morning event blocks the previous day only",
			start: at(loc, 2025, 12, 2, 10, 0),
			end:   at(loc, 2025, 12, 2, 12, 0),
			want:  []calendar.Date{day(2025, 12, 1)},
		},
		{
			name:  "midday event blocks both days",
			start: at(loc, 2025, 12, 2, 12, 0),
			end:   at(loc, 2025, 12, 2, 15, 0),
			want:  []calendar.Date{day(2025, 12, 1), day(2025, 12, 2)},
		},
		{
			name:  "ending exactly two hours before check-in does not block",
			start: at(loc, 2025, 12, 2, 9, 0),
			end:   at(loc, 2025, 12, 2, 14, 0),
			want:  []calendar.Date{day(2025, 12, 1)},
		},
		{
			name:  "starting at check-in does not hold the night before",
			start: at(loc, 2025, 12, 2, 16, 0),
			end:   at(loc, 2025, 12, 2, 18, 0),
			want:  []calendar.Date{day(2025, 12, 2)},
		},
		{
			name:  "multi-day span holds every touched night",
			start: at(loc, 2025, 12, 5, 18, 0),
			end:   at(loc, 2025, 12, 7, 10, 0),
			want:  []calendar.Date{day(2025, 12, 5), day(2025, 12, 6)},
		},
		{
			name:  "ending at midnight does not touch the next day",
			start: at(loc, 2025, 12, 1, 20, 0),
			end:   at(loc, 2025, 12, 2, 0, 0),
			want:  []calendar.Date{day(2025, 12, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.BlockDateList(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlockDatesUsesLocalDays(t *testing.T) {
	loc := detroit(t)
	e := rules.NewEngine(rules.DefaultPolicy(loc))

	// 00:00-03:00 UTC on Dec 2 is the evening of Dec 1 in Detroit.
	got, err := e.BlockDateList(time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 2, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []calendar.Date{day(2025, 12, 1)}, got)
}

func TestBlockDatesRejectsEmptyWindow(t *testing.T) {
	loc := detroit(t)
	e := rules.NewEngine(rules.DefaultPolicy(loc))
	start := at(loc, 2025, 12, 1, 19, 0)

	_, err := e.BlockDates(start, start)
	var winErr *rules.InvalidWindowError
	assert.ErrorAs(t, err, &winErr)
}

func TestConfigPolicy(t *testing.T) {
	p, err := rules.Config{
		Timezone:                "America/Detroit",
		CheckIn:                 "15:30",
		CheckOut:                "10:00",
		PostActivityBufferHours: 3,
		BufferLocation:          "1-hr buffer",
	}.Policy()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Hour+30*time.Minute, p.CheckIn)
	assert.Equal(t, 10*time.Hour, p.CheckOut)
	assert.Equal(t, 3*time.Hour, p.PostActivityBuffer)
	assert.Equal(t, "America/Detroit", p.Location.String())

	_, err = rules.Config{Timezone: "Mars/Olympus", CheckIn: "16:00", CheckOut: "11:00"}.Policy()
	assert.Error(t, err)

	_, err = rules.Config{Timezone: "UTC", CheckIn: "4pm", CheckOut: "11:00"}.Policy()
	assert.Error(t, err)
}

func TestCompleteLodging(t *testing.T) {
	loc := detroit(t)
	e := rules.NewEngine(rules.DefaultPolicy(loc))
	in, out := e.CompleteLodging(day(2025, 12, 3), day(2025, 12, 4))
	assert.Equal(t, at(loc, 2025, 12, 3, 16, 0), in)
	assert.Equal(t, at(loc, 2025, 12, 4, 11, 0), out)
}

func TestBlockLabel(t *testing.T) {
	l, ok := rules.BlockLabel(booking.KindPhotoshoot)
	assert.True(t, ok)
	assert.Equal(t, rules.LabelPhotoshoot, l)

	_, ok = rules.BlockLabel(booking.KindLodging)
	assert.False(t, ok)
}

func TestHoldLabel(t *testing.T) {
	loc := detroit(t)
	e := rules.NewEngine(rules.DefaultPolicy(loc))
	morning := at(loc, 2025, 12, 2, 10, 0)
	afternoon := at(loc, 2025, 12, 2, 13, 0)

	tests := []struct {
		name  string
		day   calendar.Date
		start time.Time
		want  string
	}{
		{"prior day of morning start", day(2025, 12, 1), morning, "AM EVENT"},
		{"start day of morning start", day(2025, 12, 2), morning, "EVENT"},
		{"prior day at cutoff", day(2025, 12, 1), afternoon, "EVENT"},
		{"prior day in another zone", day(2025, 12, 1), morning.UTC(), "AM EVENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.HoldLabel(rules.LabelEvent, tt.day, tt.start))
		})
	}
}
