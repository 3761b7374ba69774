package rules

import (
	"sort"
	"time"

	"calendar-agent/core/calendar"
	"calendar-agent/core/title"
)

// morningCutoff is the local start time before which the hold on the day
// before an activity is labeled as a morning hold.
const morningCutoff = 13 * time.Hour

// Engine evaluates the block-date rule for one property policy.
type Engine struct {
	policy Policy
}

// NewEngine creates a rules engine for the given policy.
func NewEngine(p Policy) *Engine {
	if p.Location == nil {
		p.Location = time.Local
	}
	return &Engine{policy: p}
}

// Policy returns the policy the engine evaluates.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Location returns the local timezone of the property.
func (e *Engine) Location() *time.Location {
	return e.policy.Location
}

// BlockDates returns the local dates that must be held on the adjacent
// rental unit because of an activity spanning [start, end).
//
// For every local day touched by the window, the day's occupied segment is
// examined: a segment starting before check-in holds the night before, and a
// segment whose end plus the post-activity buffer passes check-in holds the
// day itself.
func (e *Engine) BlockDates(start, end time.Time) (map[calendar.Date]struct{}, error) {
	if !end.After(start) {
		return nil, &InvalidWindowError{Start: start, End: end}
	}

	loc := e.policy.Location
	start = start.In(loc)
	end = end.In(loc)

	blocked := make(map[calendar.Date]struct{})
	last := calendar.DateOf(end.Add(-time.Nanosecond))
	for d := calendar.DateOf(start); !d.After(last); d = d.AddDays(1) {
		dayStart, dayEnd := calendar.DayBounds(d, loc)
		segStart := later(start, dayStart)
		segEnd := earlier(end, dayEnd)
		if !segEnd.After(segStart) {
			continue
		}

		checkIn := d.At(e.policy.CheckIn, loc)
		if segStart.Before(checkIn) {
			blocked[d.AddDays(-1)] = struct{}{}
		}
		if segEnd.Add(e.policy.PostActivityBuffer).After(checkIn) {
			blocked[d] = struct{}{}
		}
	}
	return blocked, nil
}

// BlockDateList is BlockDates in ascending order.
func (e *Engine) BlockDateList(start, end time.Time) ([]calendar.Date, error) {
	set, err := e.BlockDates(start, end)
	if err != nil {
		return nil, err
	}
	out := make([]calendar.Date, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// HoldLabel returns the label of the hold on day for an activity starting at
// start: "AM <LABEL>" on the day before a start earlier than 13:00, the bare
// label otherwise.
func (e *Engine) HoldLabel(label string, day calendar.Date, start time.Time) string {
	start = start.In(e.policy.Location)
	clock := time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute
	if day == calendar.DateOf(start).AddDays(-1) && clock < morningCutoff {
		return title.MorningPrefix + label
	}
	return label
}

// CompleteLodging fills in standard check-in and check-out times for a stay
// given only by its dates.
func (e *Engine) CompleteLodging(arrive, depart calendar.Date) (time.Time, time.Time) {
	loc := e.policy.Location
	return arrive.At(e.policy.CheckIn, loc), depart.At(e.policy.CheckOut, loc)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
