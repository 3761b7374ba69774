package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Patch and Delete when the record does not exist.
var ErrNotFound = errors.New("calendar: record not found")

// Store is the external calendar store the reconciliation engine writes
// through. Implementations own pagination, authentication, timeouts and
// retries. Cancelled records are never returned by the Find and List calls.
type Store interface {
	// FindByIdentity returns the record stamped with key, or nil.
	FindByIdentity(ctx context.Context, calendarID, key string) (*Record, error)
	// FindBySummaryLocationDay returns timed records starting on day whose
	// summary matches case-insensitively. An empty location matches any.
	FindBySummaryLocationDay(ctx context.Context, calendarID, summary, location string, day Date) ([]Record, error)
	// FindAnyAllDay returns an all-day record on day regardless of title, or nil.
	FindAnyAllDay(ctx context.Context, calendarID string, day Date) (*Record, error)
	// Insert creates a record and returns it with its assigned id.
	Insert(ctx context.Context, calendarID string, r Record) (Record, error)
	// Patch applies a partial update and returns the updated record.
	Patch(ctx context.Context, calendarID, id string, p Patch) (Record, error)
	// Delete removes a record.
	Delete(ctx context.Context, calendarID, id string) error
	// ListBetween returns records overlapping [start, end).
	ListBetween(ctx context.Context, calendarID string, start, end time.Time) ([]Record, error)
}

// Overlaps reports whether the record intersects [start, end) in loc.
func Overlaps(r Record, start, end time.Time, loc *time.Location) bool {
	rs, re := r.Bounds(loc)
	return rs.Before(end) && re.After(start)
}

// StartsOn reports whether a timed record starts on day in loc.
func StartsOn(r Record, day Date, loc *time.Location) bool {
	if r.AllDay {
		return false
	}
	return DateOf(r.Start.In(loc)) == day
}

// PickAllDay chooses the record FindAnyAllDay returns among several all-day
// records on one day: an agent-managed record first, then the earliest id.
func PickAllDay(records []Record) *Record {
	var best *Record
	for i := range records {
		r := records[i]
		if !r.AllDay || r.Cancelled() {
			continue
		}
		if best == nil ||
			(r.Managed() && !best.Managed()) ||
			(r.Managed() == best.Managed() && r.ID < best.ID) {
			c := r.Clone()
			best = &c
		}
	}
	return best
}
