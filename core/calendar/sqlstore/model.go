package sqlstore

import (
	"time"

	"calendar-agent/core/calendar"
)

// eventRow is the persisted form of a calendar.Record.
// All-day rows also carry the day bounds in StartAt/EndAt so one overlap
// query serves both record shapes.
type eventRow struct {
	ID          string            `gorm:"primaryKey;column:id;type:varchar(64)"`
	CalendarID  string            `gorm:"column:calendar_id;type:varchar(191);index:idx_calendar_identity,priority:1;index:idx_calendar_window,priority:1"`
	Identity    string            `gorm:"column:identity;type:varchar(255);index:idx_calendar_identity,priority:2"`
	Summary     string            `gorm:"column:summary;type:varchar(255)"`
	Location    string            `gorm:"column:location;type:varchar(255)"`
	Description string            `gorm:"column:description;type:text"`
	Status      string            `gorm:"column:status;type:varchar(16);default:confirmed"`
	AllDay      bool              `gorm:"column:all_day"`
	AllDayDate  string            `gorm:"column:all_day_date;type:varchar(10)"`
	StartAt     time.Time         `gorm:"column:start_at;index:idx_calendar_window,priority:2"`
	EndAt       time.Time         `gorm:"column:end_at"`
	Properties  map[string]string `gorm:"column:properties;type:text;serializer:json"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
}

func (eventRow) TableName() string { return "calendar_events" }

// requiredColumns are checked after migration.
var requiredColumns = []string{
	"id", "calendar_id", "identity", "summary", "location", "status",
	"all_day", "all_day_date", "start_at", "end_at", "properties",
}

func toRow(calendarID string, r calendar.Record, loc *time.Location) eventRow {
	row := eventRow{
		ID:          r.ID,
		CalendarID:  calendarID,
		Identity:    r.Identity(),
		Summary:     r.Summary,
		Location:    r.Location,
		Description: r.Description,
		Status:      r.Status,
		AllDay:      r.AllDay,
		Properties:  calendar.CloneProperties(r.Properties),
	}
	if row.Status == "" {
		row.Status = calendar.StatusConfirmed
	}
	start, end := r.Bounds(loc)
	row.StartAt = start.UTC()
	row.EndAt = end.UTC()
	if r.AllDay {
		row.AllDayDate = r.Date.String()
	}
	return row
}

func fromRow(row eventRow, loc *time.Location) calendar.Record {
	r := calendar.Record{
		ID:          row.ID,
		Summary:     row.Summary,
		Location:    row.Location,
		Description: row.Description,
		Status:      row.Status,
		AllDay:      row.AllDay,
		Properties:  calendar.CloneProperties(row.Properties),
	}
	if row.AllDay {
		if d, err := calendar.ParseDate(row.AllDayDate); err == nil {
			r.Date = d
		}
		return r
	}
	r.Start = row.StartAt.In(loc)
	r.End = row.EndAt.In(loc)
	return r
}

// Model returns the GORM model of the events table, for schema checks.
func Model() any {
	return eventRow{}
}
