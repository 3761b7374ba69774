package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calendar-agent/core/calendar"
	"calendar-agent/core/reconcile"
	"calendar-agent/core/storage"
	"calendar-agent/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sources groups what the integrity checks inspect. Nil members skip their check.
type Sources struct {
	Store     calendar.Store
	Calendars reconcile.Calendars
	DB        *gorm.DB
	Models    []any
	Storage   storage.Client
	Bucket    string
	Region    string
	Object    string
	Location  *time.Location
	// Horizon bounds the hold scan, starting today.
	Horizon time.Duration
}

// Service handles integrity checks.
type Service struct {
	src    Sources
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new integrity service.
func NewService(src Sources, logger *zap.Logger) *Service {
	if src.Location == nil {
		src.Location = time.UTC
	}
	return &Service{src: src, logger: logger, now: time.Now}
}

// SetClock overrides the clock used to anchor the hold scan.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CheckSchema compares the live tables with the GORM models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.src.DB == nil {
		return nil, ErrSkipped
	}
	return checks.CheckSchema(s.src.DB, s.src.Models...)
}

// CheckFeed inspects the published feed object.
func (s *Service) CheckFeed(ctx context.Context) (*checks.FeedReport, error) {
	if s.src.Storage == nil {
		return nil, ErrSkipped
	}
	return checks.CheckFeed(ctx, s.src.Storage, s.src.Bucket, s.src.Object)
}

// FixFeed creates the feed bucket when it is missing.
func (s *Service) FixFeed(ctx context.Context) error {
	if s.src.Storage == nil {
		return ErrSkipped
	}
	s.logger.Info("Creating feed bucket", zap.String("bucket", s.src.Bucket))
	return storage.EnsureBucket(ctx, s.src.Storage, s.src.Bucket, s.src.Region)
}

// CalendarReport combines reachability and the hold scan.
type CalendarReport struct {
	Reachable map[string]string   `json:"reachable"`
	Holds     *checks.HoldsReport `json:"holds,omitempty"`
	Status    string              `json:"status"`
}

// CheckCalendars lists every configured calendar once, then scans the blocks
// calendar for days holding more than one agent record.
func (s *Service) CheckCalendars(ctx context.Context) (*CalendarReport, error) {
	if s.src.Store == nil {
		return nil, ErrSkipped
	}
	start, _ := calendar.DayBounds(calendar.DateOf(s.now().In(s.src.Location)), s.src.Location)

	report := &CalendarReport{
		Reachable: checks.CheckReachable(ctx, s.src.Store, s.src.Calendars.All(), start),
		Status:    "ok",
	}
	for _, state := range report.Reachable {
		if state != "ok" {
			report.Status = "error"
		}
	}

	if s.src.Calendars.Blocks == "" {
		return report, nil
	}
	holds, err := checks.CheckHolds(ctx, s.src.Store, s.src.Calendars.Blocks, start, start.Add(s.src.Horizon))
	if err != nil {
		return nil, fmt.Errorf("hold scan: %w", err)
	}
	report.Holds = holds
	if holds.Status != "ok" {
		report.Status = "error"
	}
	return report, nil
}

// RunAll runs every check and collects the outcome per check name.
// A failing check is reported in place and never stops the others.
func (s *Service) RunAll(ctx context.Context) map[string]any {
	report := make(map[string]any)
	add := func(name string, v any, err error) {
		switch {
		case errors.Is(err, ErrSkipped):
			report[name] = map[string]any{"status": "skipped"}
		case err != nil:
			s.logger.Warn("Integrity check failed", zap.String("check", name), zap.Error(err))
			report[name] = map[string]any{"status": "error", "error": err.Error()}
		default:
			report[name] = v
		}
	}

	schema, err := s.CheckSchema()
	add("schema", schema, err)
	feed, err := s.CheckFeed(ctx)
	add("feed", feed, err)
	cals, err := s.CheckCalendars(ctx)
	add("calendars", cals, err)
	return report
}
