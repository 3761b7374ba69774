package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used for dry runs and tests.
type MemoryStore struct {
	mu        sync.Mutex
	loc       *time.Location
	calendars map[string]map[string]Record
}

// NewMemoryStore creates an empty store evaluating days in loc.
func NewMemoryStore(loc *time.Location) *MemoryStore {
	if loc == nil {
		loc = time.Local
	}
	return &MemoryStore{loc: loc, calendars: make(map[string]map[string]Record)}
}

func (s *MemoryStore) FindByIdentity(_ context.Context, calendarID, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.sorted(calendarID) {
		if r.Identity() == key {
			c := r.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindBySummaryLocationDay(_ context.Context, calendarID, summary, location string, day Date) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, r := range s.sorted(calendarID) {
		if !StartsOn(r, day, s.loc) || !SameSummary(r.Summary, summary) {
			continue
		}
		if location != "" && r.Location != location {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *MemoryStore) FindAnyAllDay(_ context.Context, calendarID string, day Date) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var onDay []Record
	for _, r := range s.sorted(calendarID) {
		if r.AllDay && r.Date == day {
			onDay = append(onDay, r)
		}
	}
	return PickAllDay(onDay), nil
}

func (s *MemoryStore) Insert(_ context.Context, calendarID string, r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r = r.Clone()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusConfirmed
	}
	cal := s.calendar(calendarID)
	if _, exists := cal[r.ID]; exists {
		return Record{}, fmt.Errorf("calendar: record %s already exists", r.ID)
	}
	cal[r.ID] = r
	return r.Clone(), nil
}

func (s *MemoryStore) Patch(_ context.Context, calendarID, id string, p Patch) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.calendar(calendarID)
	r, ok := cal[id]
	if !ok {
		return Record{}, fmt.Errorf("patch %s: %w", id, ErrNotFound)
	}
	r = p.Apply(r)
	cal[id] = r
	return r.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, calendarID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal := s.calendar(calendarID)
	if _, ok := cal[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(cal, id)
	return nil
}

func (s *MemoryStore) ListBetween(_ context.Context, calendarID string, start, end time.Time) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, r := range s.sorted(calendarID) {
		if Overlaps(r, start, end, s.loc) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

// Len returns the number of records on a calendar.
func (s *MemoryStore) Len(calendarID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calendars[calendarID])
}

// All returns every record on a calendar in start order.
func (s *MemoryStore) All(calendarID string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.sorted(calendarID)
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out
}

func (s *MemoryStore) calendar(id string) map[string]Record {
	cal, ok := s.calendars[id]
	if !ok {
		cal = make(map[string]Record)
		s.calendars[id] = cal
	}
	return cal
}

// sorted returns the non-cancelled records of a calendar. Callers hold mu.
func (s *MemoryStore) sorted(calendarID string) []Record {
	cal := s.calendars[calendarID]
	out := make([]Record, 0, len(cal))
	for _, r := range cal {
		if !r.Cancelled() {
			out = append(out, r)
		}
	}
	SortRecords(out, s.loc)
	return out
}
