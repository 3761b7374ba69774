package reconcile

import (
	"context"
	"fmt"
	"time"

	"calendar-agent/core/booking"
	"calendar-agent/core/calendar"
	"calendar-agent/core/identity"
	"calendar-agent/core/rules"

	"go.uber.org/zap"
)

// placement is a timed record the engine wants to exist exactly once.
type placement struct {
	Calendar    string
	Key         string
	BookingKey  string
	Slot        string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
}

func (p placement) properties() map[string]string {
	return map[string]string{
		calendar.PropManagedBy:  calendar.ManagedByValue,
		calendar.PropIdentity:   p.Key,
		calendar.PropBookingKey: p.BookingKey,
		calendar.PropRole:       calendar.RoleBuffer,
		calendar.PropSlot:       p.Slot,
	}
}

// planPlacement decides how to make one timed record exist: patch the record
// already carrying the identity, adopt a manual record with the same summary
// and location on the same day, or insert.
func (e *Engine) planPlacement(ctx context.Context, p placement) (Action, error) {
	if !p.End.After(p.Start) {
		return Action{}, &rules.InvalidWindowError{Start: p.Start, End: p.End}
	}
	props := p.properties()

	existing, err := e.store.FindByIdentity(ctx, p.Calendar, p.Key)
	if err != nil {
		return Action{}, fmt.Errorf("lookup %s: %w", p.Key, err)
	}
	if existing != nil {
		patch := windowPatch(*existing, p.Start, p.End, props)
		if patch.Empty() {
			return Action{Type: ActionNoop, Calendar: p.Calendar, RecordID: existing.ID, Key: p.Key, Reason: "up to date"}, nil
		}
		return Action{Type: ActionPatch, Calendar: p.Calendar, RecordID: existing.ID, Key: p.Key, Patch: &patch, Reason: "window changed"}, nil
	}

	day := calendar.DateOf(p.Start.In(e.location()))
	found, err := e.store.FindBySummaryLocationDay(ctx, p.Calendar, p.Summary, p.Location, day)
	if err != nil {
		return Action{}, fmt.Errorf("adoption lookup %s: %w", p.Key, err)
	}
	candidates := adoptable(found, p.Key)
	if len(candidates) > 0 {
		chosen := earliest(candidates)
		if len(candidates) > 1 {
			ids := make([]string, len(candidates))
			for i, c := range candidates {
				ids[i] = c.ID
			}
			e.logger.Warn("Adopting earliest of several manual records",
				zap.String("key", p.Key),
				zap.Error(&AmbiguousAdoptionError{Calendar: p.Calendar, Summary: p.Summary, Day: day, Candidates: ids, Chosen: chosen.ID}),
			)
		}
		patch := windowPatch(chosen, p.Start, p.End, props)
		return Action{Type: ActionAdopt, Calendar: p.Calendar, RecordID: chosen.ID, Key: p.Key, Patch: &patch, Reason: "manual record on " + day.String()}, nil
	}

	rec := calendar.Record{
		Summary:     p.Summary,
		Location:    p.Location,
		Description: p.Description,
		Status:      calendar.StatusConfirmed,
		Start:       p.Start,
		End:         p.End,
		Properties:  props,
	}
	return Action{Type: ActionInsert, Calendar: p.Calendar, Key: p.Key, Record: &rec, Reason: "no record for key"}, nil
}

// adoptable filters out records that already belong to a different identity.
func adoptable(records []calendar.Record, key string) []calendar.Record {
	var out []calendar.Record
	for _, r := range records {
		if id := r.Identity(); id != "" && id != key {
			continue
		}
		out = append(out, r)
	}
	return out
}

func earliest(records []calendar.Record) calendar.Record {
	best := records[0]
	for _, r := range records[1:] {
		if r.Start.Before(best.Start) || (r.Start.Equal(best.Start) && r.ID < best.ID) {
			best = r
		}
	}
	return best
}

// windowPatch returns the minimal patch moving r to [start, end) and stamping props.
func windowPatch(r calendar.Record, start, end time.Time, props map[string]string) calendar.Patch {
	var p calendar.Patch
	if !r.Start.Equal(start) {
		s := start
		p.Start = &s
	}
	if !r.End.Equal(end) {
		en := end
		p.End = &en
	}
	for k, v := range props {
		if r.Properties[k] != v {
			if p.Properties == nil {
				p.Properties = make(map[string]string)
			}
			p.Properties[k] = v
		}
	}
	return p
}

// bufferPlacements maps an event to the timed records it needs.
func (e *Engine) bufferPlacements(ev booking.Event, key identity.Key, withReservation bool) ([]placement, error) {
	windows, err := rules.Buffers(ev.Kind, ev.Start, ev.End)
	if err != nil {
		return nil, err
	}
	windows = rules.Owned(key, windows)

	bookingsCal, err := e.cfg.Calendars.ForLocation(ev.Location)
	if err != nil {
		return nil, err
	}

	var out []placement
	if ev.Kind == booking.KindLodging {
		guest := guestTitle(ev.GuestName, ev.ExternalID)
		if withReservation {
			out = append(out, placement{
				Calendar:   bookingsCal,
				Key:        key.Slot(identity.SlotReservation),
				BookingKey: key.String(),
				Slot:       identity.SlotReservation,
				Summary:    guest,
				Location:   ev.Location,
				Start:      ev.Start,
				End:        ev.End,
			})
		}
		for _, w := range windows {
			out = append(out, placement{
				Calendar:    e.cfg.Calendars.Blocks,
				Key:         w.Key,
				BookingKey:  key.String(),
				Slot:        w.Slot,
				Summary:     w.Label,
				Location:    ev.Location,
				Description: fmt.Sprintf("%s (%s)", guest, ev.Location),
				Start:       w.Start,
				End:         w.End,
			})
		}
		return out, nil
	}

	for _, w := range windows {
		out = append(out, placement{
			Calendar:    bookingsCal,
			Key:         w.Key,
			BookingKey:  key.String(),
			Slot:        w.Slot,
			Summary:     w.Label,
			Location:    e.rules.Policy().BufferLocation,
			Description: guestTitle(ev.GuestName, ev.ExternalID),
			Start:       w.Start,
			End:         w.End,
		})
	}
	return out, nil
}

// PlanBuffers plans the buffer records of an event without writing.
func (e *Engine) PlanBuffers(ctx context.Context, ev booking.Event) (*Plan, error) {
	key, err := e.bookingKey(ev)
	if err != nil {
		return nil, err
	}
	placements, err := e.bufferPlacements(ev, key, false)
	if err != nil {
		return nil, err
	}
	plan := &Plan{}
	for _, p := range placements {
		a, err := e.planPlacement(ctx, p)
		if err != nil {
			return nil, err
		}
		plan.add(a)
	}
	return plan, nil
}

// ReconcileBuffer places or patches the buffer records of an event.
func (e *Engine) ReconcileBuffer(ctx context.Context, ev booking.Event, opts Options) (*Plan, Applied, error) {
	plan, err := e.PlanBuffers(ctx, ev)
	if err != nil {
		return nil, Applied{}, err
	}
	applied, err := e.ApplyPlan(ctx, plan, opts)
	return plan, applied, err
}

func (e *Engine) bookingKey(ev booking.Event) (identity.Key, error) {
	if err := ev.Validate(); err != nil {
		return identity.Key{}, err
	}
	return identity.ForEvent(ev, e.location())
}
