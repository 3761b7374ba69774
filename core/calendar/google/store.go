package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"calendar-agent/core/calendar"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrCalendarNotFound is returned when a calendar name cannot be resolved.
var ErrCalendarNotFound = errors.New("google: calendar not found")

// Store implements calendar.Store on the Google Calendar v3 API.
// Calendar arguments may be display names or ids; names are resolved once.
type Store struct {
	svc    *gcal.Service
	loc    *time.Location
	logger *zap.Logger

	mu  sync.RWMutex
	ids map[string]string
	sf  singleflight.Group
}

// NewService builds a Calendar API client from a service-account or
// authorized-user credentials file. Extra options override the defaults.
func NewService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*gcal.Service, error) {
	var all []option.ClientOption
	if credentialsFile != "" {
		all = append(all, option.WithCredentialsFile(credentialsFile))
	}
	all = append(all, opts...)

	svc, err := gcal.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// New creates a store on top of an API client. Days are evaluated in loc.
func New(svc *gcal.Service, loc *time.Location, logger *zap.Logger) *Store {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{svc: svc, loc: loc, logger: logger, ids: make(map[string]string)}
}

// ResolveCalendar maps a display name to a calendar id. Values that already
// look like ids ("primary" or containing "@") are returned unchanged.
func (s *Store) ResolveCalendar(ctx context.Context, name string) (string, error) {
	if name == "primary" || strings.Contains(name, "@") {
		return name, nil
	}

	s.mu.RLock()
	id, ok := s.ids[name]
	s.mu.RUnlock()
	if ok {
		return id, nil
	}

	result, err, _ := s.sf.Do(name, func() (interface{}, error) {
		s.mu.RLock()
		id, ok := s.ids[name]
		s.mu.RUnlock()
		if ok {
			return id, nil
		}

		var found string
		err := s.svc.CalendarList.List().Context(ctx).Pages(ctx, func(page *gcal.CalendarList) error {
			for _, entry := range page.Items {
				if entry.Summary == name || entry.SummaryOverride == name || entry.Id == name {
					found = entry.Id
					return errStopPaging
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopPaging) {
			return nil, fmt.Errorf("list calendars: %w", err)
		}
		if found == "" {
			return nil, fmt.Errorf("%w: %q", ErrCalendarNotFound, name)
		}

		s.mu.Lock()
		s.ids[name] = found
		s.mu.Unlock()
		s.logger.Debug("Resolved calendar", zap.String("name", name), zap.String("id", found))
		return found, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

var errStopPaging = errors.New("stop paging")

// list pages through events and returns the non-cancelled records.
func (s *Store) list(ctx context.Context, calendarID string, configure func(*gcal.EventsListCall) *gcal.EventsListCall) ([]calendar.Record, error) {
	id, err := s.ResolveCalendar(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	call := s.svc.Events.List(id).SingleEvents(true).ShowDeleted(false).MaxResults(250)
	call = configure(call)

	var out []calendar.Record
	err = call.Pages(ctx, func(page *gcal.Events) error {
		for _, ev := range page.Items {
			r, convErr := fromEvent(ev, s.loc)
			if convErr != nil {
				s.logger.Warn("Skipping unreadable event", zap.String("calendar", id), zap.Error(convErr))
				continue
			}
			if !r.Cancelled() {
				out = append(out, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events on %s: %w", calendarID, err)
	}
	calendar.SortRecords(out, s.loc)
	return out, nil
}

func (s *Store) window(start, end time.Time) func(*gcal.EventsListCall) *gcal.EventsListCall {
	return func(c *gcal.EventsListCall) *gcal.EventsListCall {
		return c.TimeMin(start.Format(time.RFC3339)).TimeMax(end.Format(time.RFC3339))
	}
}

func (s *Store) FindByIdentity(ctx context.Context, calendarID, key string) (*calendar.Record, error) {
	records, err := s.list(ctx, calendarID, func(c *gcal.EventsListCall) *gcal.EventsListCall {
		return c.PrivateExtendedProperty(calendar.PropIdentity + "=" + key)
	})
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Identity() == key {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Store) FindBySummaryLocationDay(ctx context.Context, calendarID, summary, location string, day calendar.Date) ([]calendar.Record, error) {
	dayStart, dayEnd := calendar.DayBounds(day, s.loc)
	records, err := s.list(ctx, calendarID, s.window(dayStart, dayEnd))
	if err != nil {
		return nil, err
	}
	var out []calendar.Record
	for _, r := range records {
		if !calendar.StartsOn(r, day, s.loc) || !calendar.SameSummary(r.Summary, summary) {
			continue
		}
		if location != "" && r.Location != location {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) FindAnyAllDay(ctx context.Context, calendarID string, day calendar.Date) (*calendar.Record, error) {
	dayStart, dayEnd := calendar.DayBounds(day, s.loc)
	records, err := s.list(ctx, calendarID, s.window(dayStart, dayEnd))
	if err != nil {
		return nil, err
	}
	var onDay []calendar.Record
	for _, r := range records {
		if r.AllDay && r.Date == day {
			onDay = append(onDay, r)
		}
	}
	return calendar.PickAllDay(onDay), nil
}

func (s *Store) Insert(ctx context.Context, calendarID string, r calendar.Record) (calendar.Record, error) {
	id, err := s.ResolveCalendar(ctx, calendarID)
	if err != nil {
		return calendar.Record{}, err
	}
	created, err := s.svc.Events.Insert(id, toEvent(r, s.loc)).Context(ctx).Do()
	if err != nil {
		return calendar.Record{}, fmt.Errorf("insert %q: %w", r.Summary, err)
	}
	return fromEvent(created, s.loc)
}

func (s *Store) Patch(ctx context.Context, calendarID, eventID string, p calendar.Patch) (calendar.Record, error) {
	id, err := s.ResolveCalendar(ctx, calendarID)
	if err != nil {
		return calendar.Record{}, err
	}
	updated, err := s.svc.Events.Patch(id, eventID, patchEvent(p, s.loc)).Context(ctx).Do()
	if err != nil {
		return calendar.Record{}, fmt.Errorf("patch %s: %w", eventID, notFound(err))
	}
	return fromEvent(updated, s.loc)
}

func (s *Store) Delete(ctx context.Context, calendarID, eventID string) error {
	id, err := s.ResolveCalendar(ctx, calendarID)
	if err != nil {
		return err
	}
	if err := s.svc.Events.Delete(id, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s: %w", eventID, notFound(err))
	}
	return nil
}

func (s *Store) ListBetween(ctx context.Context, calendarID string, start, end time.Time) ([]calendar.Record, error) {
	return s.list(ctx, calendarID, s.window(start, end))
}

// notFound maps 404 and 410 responses onto calendar.ErrNotFound.
func notFound(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return fmt.Errorf("%w: %s", calendar.ErrNotFound, apiErr.Message)
	}
	return err
}

var _ calendar.Store = (*Store)(nil)
