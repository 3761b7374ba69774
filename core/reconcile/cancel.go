package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"calendar-agent/core/calendar"
	"calendar-agent/core/title"
)

func (t Target) validate() error {
	if t.Key == "" && t.Prefix == "" {
		return errors.New("reconcile: cancel needs a key or a prefix")
	}
	return nil
}

// matches reports whether a stored key belongs to the target: the exact key,
// a record key derived from it, or any key under the prefix.
func (t Target) matches(k string) bool {
	if k == "" {
		return false
	}
	if t.Key != "" && (k == t.Key || strings.HasPrefix(k, t.Key+"|")) {
		return true
	}
	return t.Prefix != "" && strings.HasPrefix(k, t.Prefix)
}

// PlanCancel finds every record of the target on every managed calendar.
// Buffers and reservations are deleted; holds on shared days lose the
// target's contributions and are deleted only when nothing remains.
func (e *Engine) PlanCancel(ctx context.Context, t Target) (*Plan, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	start, end := t.Start, t.End
	now := e.now()
	if start.IsZero() {
		start = now.Add(-e.cfg.Lookback)
	}
	if end.IsZero() {
		end = now.Add(e.cfg.Lookback)
	}

	plan := &Plan{BestEffort: true}
	for _, cal := range e.cfg.Calendars.All() {
		records, err := e.store.ListBetween(ctx, cal, start, end)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", cal, err)
		}
		for _, r := range records {
			if a, ok := e.planRemoval(cal, r, t); ok {
				plan.add(a)
			}
		}
	}
	return plan, nil
}

func (e *Engine) planRemoval(cal string, r calendar.Record, t Target) (Action, bool) {
	raw, isBlock := r.Properties[calendar.PropContributions]
	if !isBlock && r.Properties[calendar.PropRole] != calendar.RoleBlock {
		if t.matches(r.Identity()) || t.matches(r.BookingKey()) {
			return Action{Type: ActionDelete, Calendar: cal, RecordID: r.ID, Key: r.Identity(), Reason: "cancelled"}, true
		}
		return Action{}, false
	}

	contrib := parseContributions(raw)
	if len(contrib) == 0 {
		// A hold without contribution metadata is owned by its identity alone.
		if t.matches(r.Identity()) {
			return Action{Type: ActionDelete, Calendar: cal, RecordID: r.ID, Key: r.Identity(), Reason: "cancelled"}, true
		}
		return Action{}, false
	}

	st := title.Parse(r.Summary)
	var removed []string
	for _, k := range contrib.keys() {
		if t.matches(k) {
			st.Remove(contrib[k])
			removed = append(removed, k)
			delete(contrib, k)
		}
	}
	if len(removed) == 0 {
		return Action{}, false
	}

	// A hold the agent created goes away with its last contribution even if
	// someone edited extra words into its title.
	if st.Empty() || (len(contrib) == 0 && t.matches(r.Identity())) {
		return Action{Type: ActionDelete, Calendar: cal, RecordID: r.ID, Key: removed[0],
			Reason: "last contribution removed"}, true
	}

	summary := holdTitle(st, contrib)
	props := map[string]string{calendar.PropContributions: contrib.String()}
	if t.matches(r.Identity()) {
		// Hand the record over to a remaining contributor.
		next := ""
		if keys := contrib.keys(); len(keys) > 0 {
			next = keys[0]
		}
		props[calendar.PropIdentity] = next
		props[calendar.PropBookingKey] = bookingKeyOfBlock(next)
	}
	return Action{Type: ActionPatch, Calendar: cal, RecordID: r.ID, Key: strings.Join(removed, ","),
		Patch:  &calendar.Patch{Summary: &summary, Properties: props},
		Reason: fmt.Sprintf("unmerge from %q", r.Summary)}, true
}

// Cancel removes every record of the target. It never fails on zero
// matches and continues past individual failures, reporting them together.
func (e *Engine) Cancel(ctx context.Context, t Target, opts Options) (SweepResult, *Plan, error) {
	plan, err := e.PlanCancel(ctx, t)
	if err != nil {
		return SweepResult{}, nil, err
	}
	applied, err := e.ApplyPlan(ctx, plan, opts)
	return SweepResult{Deleted: applied.Deleted, Patched: applied.Patched, Failed: applied.Failed}, plan, err
}
