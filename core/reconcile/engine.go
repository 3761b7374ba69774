package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"calendar-agent/core/calendar"
	"calendar-agent/core/rules"

	"go.uber.org/zap"
)

// Calendars names the calendars the engine manages.
type Calendars struct {
	// Bookings maps a location (e.g. "Disco") to its bookings calendar.
	Bookings map[string]string
	// Blocks holds the all-day holds of the rental unit and the lodging buffers.
	Blocks string
}

// ForLocation returns the bookings calendar of a location, matched case-insensitively.
func (c Calendars) ForLocation(location string) (string, error) {
	for loc, cal := range c.Bookings {
		if strings.EqualFold(strings.TrimSpace(location), loc) {
			return cal, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocation, location)
}

// All returns every managed calendar once, in a stable order.
func (c Calendars) All() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(cal string) {
		if cal == "" {
			return
		}
		if _, ok := seen[cal]; ok {
			return
		}
		seen[cal] = struct{}{}
		out = append(out, cal)
	}
	for _, cal := range c.Bookings {
		add(cal)
	}
	add(c.Blocks)
	sort.Strings(out)
	return out
}

// Config holds the engine settings.
type Config struct {
	Calendars Calendars
	// SweepWindow bounds the update sweep around the new booking time.
	SweepWindow time.Duration
	// Lookback bounds a cancellation sweep without an explicit window.
	Lookback time.Duration
}

// Engine reconciles bookings against the calendar store.
// It is not safe for concurrent passes: callers serialize writes.
type Engine struct {
	store  calendar.Store
	rules  *rules.Engine
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a reconciliation engine.
func NewEngine(store calendar.Store, r *rules.Engine, cfg Config, logger *zap.Logger) *Engine {
	if cfg.SweepWindow <= 0 {
		cfg.SweepWindow = 90 * 24 * time.Hour
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 365 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, rules: r, cfg: cfg, logger: logger, now: time.Now}
}

// SetClock overrides the engine clock.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Rules returns the rules engine used for buffers and block dates.
func (e *Engine) Rules() *rules.Engine {
	return e.rules
}

// Calendars returns the managed calendars.
func (e *Engine) Calendars() Calendars {
	return e.cfg.Calendars
}

func (e *Engine) location() *time.Location {
	return e.rules.Location()
}
