package calendar

import (
	"sort"
	"strings"
	"time"
)

// Property keys stored in a record's properties bag. The bag is the single
// source of truth for identity: keys are never persisted anywhere else.
const (
	PropManagedBy     = "managed_by"
	PropIdentity      = "identity"
	PropBookingKey    = "booking_key"
	PropRole          = "role"
	PropSlot          = "slot"
	PropBlockDate     = "block_date"
	PropContributions = "contributions"

	// ManagedByValue marks records written by this agent.
	ManagedByValue = "calendar-agent"
)

// Record roles.
const (
	RoleBuffer = "buffer"
	RoleBlock  = "block"
)

// Record statuses, mirroring the external store.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Record is the external store's representation of a calendar entry.
// A record is either timed (Start/End) or all-day (AllDay + Date).
type Record struct {
	// ID is assigned by the store on insert.
	ID string `json:"id"`
	// Summary is the visible title.
	Summary string `json:"summary"`
	// Location is the free-text location field.
	Location string `json:"location,omitempty"`
	// Description is the free-text body.
	Description string `json:"description,omitempty"`
	// Status is confirmed or cancelled.
	Status string `json:"status,omitempty"`
	// Start and End bound a timed record.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// AllDay marks an all-day record occupying Date.
	AllDay bool `json:"all_day"`
	Date   Date `json:"date"`
	// Properties is an opaque key/value bag carrying identity and merge metadata.
	Properties map[string]string `json:"properties,omitempty"`
}

// Identity returns the identity key stamped on the record, if any.
func (r Record) Identity() string {
	return r.Properties[PropIdentity]
}

// BookingKey returns the booking key stamped on the record, if any.
func (r Record) BookingKey() string {
	return r.Properties[PropBookingKey]
}

// Managed reports whether the record was written or adopted by the agent.
func (r Record) Managed() bool {
	return r.Properties[PropManagedBy] == ManagedByValue
}

// Cancelled reports whether the store marked the record cancelled.
func (r Record) Cancelled() bool {
	return r.Status == StatusCancelled
}

// Bounds returns the time span covered by the record in loc.
// All-day records span their whole day.
func (r Record) Bounds(loc *time.Location) (time.Time, time.Time) {
	if r.AllDay {
		return DayBounds(r.Date, loc)
	}
	return r.Start, r.End
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Properties = CloneProperties(r.Properties)
	return out
}

// Patch describes a partial update. Nil fields are left untouched;
// Properties are merged into the existing bag key by key.
type Patch struct {
	Summary    *string           `json:"summary,omitempty"`
	Start      *time.Time        `json:"start,omitempty"`
	End        *time.Time        `json:"end,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Summary == nil && p.Start == nil && p.End == nil && len(p.Properties) == 0
}

// Apply returns a copy of r with the patch applied.
func (p Patch) Apply(r Record) Record {
	out := r.Clone()
	if p.Summary != nil {
		out.Summary = *p.Summary
	}
	if p.Start != nil {
		out.Start = *p.Start
	}
	if p.End != nil {
		out.End = *p.End
	}
	if len(p.Properties) > 0 {
		if out.Properties == nil {
			out.Properties = make(map[string]string, len(p.Properties))
		}
		for k, v := range p.Properties {
			out.Properties[k] = v
		}
	}
	return out
}

// CloneProperties copies a properties bag. A nil bag stays nil.
func CloneProperties(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SameSummary compares titles the way manual entries are matched: trimmed
// and case-insensitive.
func SameSummary(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// SortRecords orders records by start, then by id, so store results are deterministic.
func SortRecords(records []Record, loc *time.Location) {
	sort.SliceStable(records, func(i, j int) bool {
		si, _ := records[i].Bounds(loc)
		sj, _ := records[j].Bounds(loc)
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return records[i].ID < records[j].ID
	})
}
