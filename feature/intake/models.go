package intake

import (
	"fmt"
	"strings"
	"time"

	"calendar-agent/core/booking"
	"calendar-agent/core/reconcile"
)

// BookingRequest is a normalized booking posted by an upstream parser.
type BookingRequest struct {
	// MessageID identifies the upstream message; repeated ids are skipped.
	MessageID  string    `json:"message_id,omitempty"`
	Source     string    `json:"source" example:"peerspace"`
	Kind       string    `json:"kind" example:"event"`
	ExternalID string    `json:"external_id" example:"Alex"`
	GuestName  string    `json:"guest_name" example:"Alex Smith"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Location   string    `json:"location" example:"Disco"`
	// DryRun plans without writing.
	DryRun bool `json:"dry_run,omitempty"`
}

// Event converts the request into a booking event.
func (r BookingRequest) Event() (booking.Event, error) {
	source, err := booking.ParseSource(r.Source)
	if err != nil {
		return booking.Event{}, err
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return booking.Event{}, fmt.Errorf("start and end are required")
	}
	ev := booking.Event{
		Source:     source,
		Kind:       booking.ParseKind(r.Kind),
		ExternalID: strings.TrimSpace(r.ExternalID),
		GuestName:  strings.TrimSpace(r.GuestName),
		Start:      r.Start,
		End:        r.End,
		Location:   strings.TrimSpace(r.Location),
	}
	return ev, ev.Validate()
}

// CancelRequest removes a booking's records, by exact key or by source and
// external id when the exact key is unknown.
type CancelRequest struct {
	MessageID  string     `json:"message_id,omitempty"`
	Key        string     `json:"key,omitempty" example:"ps|Alex|event|2025-12-01"`
	Source     string     `json:"source,omitempty" example:"peerspace"`
	ExternalID string     `json:"external_id,omitempty" example:"Alex"`
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	DryRun     bool       `json:"dry_run,omitempty"`
}

// Outcome statuses.
const (
	StatusApplied   = "applied"
	StatusPlanned   = "planned"
	StatusDuplicate = "duplicate"
)

// Outcome reports what a request did or would do.
type Outcome struct {
	Status     string                 `json:"status"`
	BookingKey string                 `json:"booking_key,omitempty"`
	Summary    reconcile.PlanSummary  `json:"summary"`
	Applied    reconcile.Applied      `json:"applied"`
	Sweep      *reconcile.SweepResult `json:"sweep,omitempty"`
	Actions    []ActionView           `json:"actions,omitempty"`
}

// ActionView is the wire form of a planned action.
type ActionView struct {
	Type     string `json:"type"`
	Calendar string `json:"calendar"`
	RecordID string `json:"record_id,omitempty"`
	Key      string `json:"key"`
	Reason   string `json:"reason"`
}

func viewActions(plans ...*reconcile.Plan) []ActionView {
	var out []ActionView
	for _, p := range plans {
		if p == nil {
			continue
		}
		for _, a := range p.Actions {
			out = append(out, ActionView{
				Type:     string(a.Type),
				Calendar: a.Calendar,
				RecordID: a.RecordID,
				Key:      a.Key,
				Reason:   a.Reason,
			})
		}
	}
	return out
}

// BlockPreview lists the days a booking would block.
type BlockPreview struct {
	Kind  string   `json:"kind"`
	Label string   `json:"label,omitempty"`
	Dates []string `json:"dates"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PartialFailure is returned when a sweep ran into store errors after doing
// part of its work. Outcome holds what was applied.
type PartialFailure struct {
	Error   string  `json:"error"`
	Outcome Outcome `json:"outcome"`
}
