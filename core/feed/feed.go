package feed

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"calendar-agent/core/calendar"
	"calendar-agent/core/storage"

	ics "github.com/arran4/golang-ical"
	"github.com/minio/minio-go/v7"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	productID   = "-//calendar-agent//block feed//EN"
	contentType = "text/calendar; charset=utf-8"
)

// Result describes one published feed.
type Result struct {
	Bucket string
	Object string
	Events int
	Bytes  int64
}

// Publisher renders the all-day holds of the blocks calendar as an ICS feed
// and uploads it to object storage.
type Publisher struct {
	store    calendar.Store
	client   storage.Client
	bucket   string
	calendar string
	loc      *time.Location
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewPublisher creates a feed publisher for the given blocks calendar.
func NewPublisher(store calendar.Store, client storage.Client, bucket, calendarID string, loc *time.Location, cfg Config, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Object == "" {
		cfg.Object = "blocks.ics"
	}
	return &Publisher{
		store:    store,
		client:   client,
		bucket:   bucket,
		calendar: calendarID,
		loc:      loc,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the publisher clock.
func (p *Publisher) SetClock(now func() time.Time) {
	p.now = now
}

// Holds returns the all-day holds from today until the horizon.
func (p *Publisher) Holds(ctx context.Context) ([]calendar.Record, error) {
	today := calendar.DateOf(p.now().In(p.loc))
	start, _ := calendar.DayBounds(today, p.loc)
	end := start.Add(p.cfg.Horizon())

	records, err := p.store.ListBetween(ctx, p.calendar, start, end)
	if err != nil {
		return nil, fmt.Errorf("list holds: %w", err)
	}
	holds := records[:0]
	for _, r := range records {
		if r.AllDay && !r.Cancelled() {
			holds = append(holds, r)
		}
	}
	return holds, nil
}

// Render serializes holds as an ICS calendar, one all-day VEVENT per hold.
func Render(name string, holds []calendar.Record, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, r := range holds {
		ev := cal.AddEvent(r.ID)
		ev.SetDtStampTime(stamp.UTC())
		ev.SetAllDayStartAt(r.Date.In(time.UTC))
		ev.SetAllDayEndAt(r.Date.AddDays(1).In(time.UTC))
		ev.SetSummary(r.Summary)
		if r.Description != "" {
			ev.SetDescription(r.Description)
		}
		ev.SetStatus(ics.ObjectStatusConfirmed)
		ev.SetTimeTransparency(ics.TransparencyOpaque)
	}
	return cal.Serialize()
}

// Build renders the current feed.
func (p *Publisher) Build(ctx context.Context) ([]byte, int, error) {
	holds, err := p.Holds(ctx)
	if err != nil {
		return nil, 0, err
	}
	return []byte(Render(p.cfg.Name, holds, p.now())), len(holds), nil
}

// Publish builds the feed and uploads it, replacing the previous version.
func (p *Publisher) Publish(ctx context.Context) (Result, error) {
	body, n, err := p.Build(ctx)
	if err != nil {
		return Result{}, err
	}

	info, err := p.client.PutObject(ctx, p.bucket, p.cfg.Object, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "no-cache",
	})
	if err != nil {
		return Result{}, fmt.Errorf("upload %s/%s: %w", p.bucket, p.cfg.Object, err)
	}

	res := Result{Bucket: p.bucket, Object: p.cfg.Object, Events: n, Bytes: int64(len(body))}
	p.logger.Info("Published block feed",
		zap.String("object", p.cfg.Object),
		zap.Int("events", n),
		zap.String("etag", info.ETag),
	)
	return res, nil
}

// Schedule registers periodic publishing on c. Each run gets its own timeout.
func (p *Publisher) Schedule(c *cron.Cron, timeout time.Duration) (cron.EntryID, error) {
	id, err := c.AddFunc(p.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := p.Publish(ctx); err != nil {
			p.logger.Error("Scheduled feed publish failed", zap.Error(err))
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid feed schedule %q: %w", p.cfg.Schedule, err)
	}
	return id, nil
}
