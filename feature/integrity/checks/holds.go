package checks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"calendar-agent/core/calendar"
)

// HoldsReport lists days that break the one-hold-per-day rule.
type HoldsReport struct {
	Calendar string `json:"calendar"`
	Days     int    `json:"days"`
	// Duplicates maps a day to the ids of its agent-written all-day records.
	Duplicates map[string][]string `json:"duplicates"`
	Status     string              `json:"status"`
}

// CheckHolds scans the blocks calendar between start and end and reports days
// carrying more than one all-day record written by the agent.
func CheckHolds(ctx context.Context, store calendar.Store, calendarID string, start, end time.Time) (*HoldsReport, error) {
	records, err := store.ListBetween(ctx, calendarID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", calendarID, err)
	}

	byDay := make(map[string][]string)
	for _, r := range records {
		if !r.AllDay || r.Cancelled() || !r.Managed() {
			continue
		}
		day := r.Date.String()
		byDay[day] = append(byDay[day], r.ID)
	}

	report := &HoldsReport{Calendar: calendarID, Days: len(byDay), Duplicates: map[string][]string{}, Status: "ok"}
	for day, ids := range byDay {
		if len(ids) > 1 {
			sort.Strings(ids)
			report.Duplicates[day] = ids
			report.Status = "error"
		}
	}
	return report, nil
}

// CheckReachable lists each calendar once and reports the ones that fail.
func CheckReachable(ctx context.Context, store calendar.Store, calendars []string, at time.Time) map[string]string {
	out := make(map[string]string, len(calendars))
	for _, cal := range calendars {
		if _, err := store.ListBetween(ctx, cal, at, at.Add(24*time.Hour)); err != nil {
			out[cal] = err.Error()
			continue
		}
		out[cal] = "ok"
	}
	return out
}
