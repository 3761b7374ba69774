package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"calendar-agent/core/calendar"
	"calendar-agent/core/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store implements calendar.Store on a SQL database through GORM.
type Store struct {
	db  *gorm.DB
	loc *time.Location
}

// New creates a store. Days are evaluated in loc.
func New(db *gorm.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{db: db, loc: loc}
}

// Migrate creates or updates the calendar_events table and verifies its columns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&eventRow{}); err != nil {
		return fmt.Errorf("failed to migrate calendar_events: %w", err)
	}
	missing, err := database.MissingColumns(db, eventRow{}.TableName(), requiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("calendar_events is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *Store) active(ctx context.Context, calendarID string) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("calendar_id = ?", calendarID).
		Where("status <> ?", calendar.StatusCancelled)
}

func (s *Store) FindByIdentity(ctx context.Context, calendarID, key string) (*calendar.Record, error) {
	var rows []eventRow
	err := s.active(ctx, calendarID).
		Where("identity = ?", key).
		Order("start_at, id").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find by identity %s: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := fromRow(rows[0], s.loc)
	return &r, nil
}

func (s *Store) FindBySummaryLocationDay(ctx context.Context, calendarID, summary, location string, day calendar.Date) ([]calendar.Record, error) {
	dayStart, dayEnd := calendar.DayBounds(day, s.loc)

	var rows []eventRow
	err := s.active(ctx, calendarID).
		Where("all_day = ?", false).
		Where("start_at >= ? AND start_at < ?", dayStart.UTC(), dayEnd.UTC()).
		Order("start_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find by summary on %s: %w", day, err)
	}

	var out []calendar.Record
	for _, row := range rows {
		if !calendar.SameSummary(row.Summary, summary) {
			continue
		}
		if location != "" && row.Location != location {
			continue
		}
		out = append(out, fromRow(row, s.loc))
	}
	return out, nil
}

func (s *Store) FindAnyAllDay(ctx context.Context, calendarID string, day calendar.Date) (*calendar.Record, error) {
	var rows []eventRow
	err := s.active(ctx, calendarID).
		Where("all_day = ? AND all_day_date = ?", true, day.String()).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find all-day on %s: %w", day, err)
	}
	records := make([]calendar.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, fromRow(row, s.loc))
	}
	return calendar.PickAllDay(records), nil
}

func (s *Store) Insert(ctx context.Context, calendarID string, r calendar.Record) (calendar.Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	row := toRow(calendarID, r, s.loc)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return calendar.Record{}, fmt.Errorf("insert %q: %w", r.Summary, err)
	}
	return fromRow(row, s.loc), nil
}

func (s *Store) Patch(ctx context.Context, calendarID, id string, p calendar.Patch) (calendar.Record, error) {
	var rows []eventRow
	err := s.db.WithContext(ctx).
		Where("calendar_id = ? AND id = ?", calendarID, id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return calendar.Record{}, fmt.Errorf("patch %s: %w", id, err)
	}
	if len(rows) == 0 {
		return calendar.Record{}, fmt.Errorf("patch %s: %w", id, calendar.ErrNotFound)
	}

	updated := p.Apply(fromRow(rows[0], s.loc))
	row := toRow(calendarID, updated, s.loc)
	row.CreatedAt = rows[0].CreatedAt
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return calendar.Record{}, fmt.Errorf("patch %s: %w", id, err)
	}
	return fromRow(row, s.loc), nil
}

func (s *Store) Delete(ctx context.Context, calendarID, id string) error {
	res := s.db.WithContext(ctx).
		Where("calendar_id = ? AND id = ?", calendarID, id).
		Delete(&eventRow{})
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", id, calendar.ErrNotFound)
	}
	return nil
}

func (s *Store) ListBetween(ctx context.Context, calendarID string, start, end time.Time) ([]calendar.Record, error) {
	var rows []eventRow
	err := s.active(ctx, calendarID).
		Where("start_at < ? AND end_at > ?", end.UTC(), start.UTC()).
		Order("start_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", calendarID, err)
	}
	out := make([]calendar.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row, s.loc))
	}
	return out, nil
}

var _ calendar.Store = (*Store)(nil)
