package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"calendar-agent/core/calendar"
	"calendar-agent/core/title"
)

// contributions maps the block keys that hold a day to the label each added.
type contributions map[string]string

func parseContributions(s string) contributions {
	out := make(contributions)
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		i := strings.LastIndex(entry, "=")
		if i <= 0 {
			continue
		}
		out[entry[:i]] = entry[i+1:]
	}
	return out
}

func (c contributions) String() string {
	keys := c.keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + c[k]
	}
	return strings.Join(parts, ";")
}

func (c contributions) keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// bookingKeyOfBlock strips "|block|YYYY-MM-DD" from a block key.
func bookingKeyOfBlock(blockKey string) string {
	if i := strings.LastIndex(blockKey, "|block|"); i >= 0 {
		return blockKey[:i]
	}
	return blockKey
}

// holdTitle renders the title of a hold. A hold carrying a single morning
// contribution keeps its qualifier; merged holds show base labels only.
func holdTitle(st title.State, contrib contributions) string {
	out := st.Render()
	labels := st.Labels()
	if len(contrib) != 1 || len(labels) != 1 || st.Count(labels[0]) != 1 {
		return out
	}
	for _, l := range contrib {
		if title.Morning(l) {
			return title.MorningPrefix + out
		}
	}
	return out
}

// PlanBlock decides how a booking's hold on a day is recorded: merged into the
// day's existing all-day record, or inserted as a fresh one. A day never
// carries two all-day records written by the agent. A label may carry the
// morning qualifier; it is kept in the contribution and shown only while the
// hold has no other contributor.
func (e *Engine) PlanBlock(ctx context.Context, day calendar.Date, label, blockKey, bookingKey string) (Action, error) {
	cal := e.cfg.Calendars.Blocks
	morning := title.Morning(label)
	label = title.Normalize(label)
	if morning {
		label = title.MorningPrefix + label
	}

	existing, err := e.store.FindAnyAllDay(ctx, cal, day)
	if err != nil {
		return Action{}, fmt.Errorf("lookup block %s: %w", day, err)
	}

	if existing == nil {
		var st title.State
		st.Add(label)
		contrib := contributions{blockKey: label}
		rec := calendar.Record{
			Summary: holdTitle(st, contrib),
			Status:  calendar.StatusConfirmed,
			AllDay:  true,
			Date:    day,
			Properties: map[string]string{
				calendar.PropManagedBy:     calendar.ManagedByValue,
				calendar.PropIdentity:      blockKey,
				calendar.PropBookingKey:    bookingKey,
				calendar.PropRole:          calendar.RoleBlock,
				calendar.PropBlockDate:     day.String(),
				calendar.PropContributions: contrib.String(),
			},
		}
		return Action{Type: ActionInsert, Calendar: cal, Key: blockKey, Record: &rec, Reason: "no hold on " + day.String()}, nil
	}

	contrib := parseContributions(existing.Properties[calendar.PropContributions])
	if _, ok := contrib[blockKey]; ok || existing.Identity() == blockKey {
		return Action{Type: ActionNoop, Calendar: cal, RecordID: existing.ID, Key: blockKey, Reason: "already contributed"}, nil
	}

	st := title.Parse(existing.Summary)
	st.Add(label)
	contrib[blockKey] = label
	summary := holdTitle(st, contrib)

	patch := calendar.Patch{
		Summary: &summary,
		Properties: map[string]string{
			calendar.PropManagedBy:     calendar.ManagedByValue,
			calendar.PropRole:          calendar.RoleBlock,
			calendar.PropBlockDate:     day.String(),
			calendar.PropContributions: contrib.String(),
		},
	}
	typ := ActionPatch
	if !existing.Managed() {
		typ = ActionAdopt
	}
	return Action{Type: typ, Calendar: cal, RecordID: existing.ID, Key: blockKey, Patch: &patch,
		Reason: fmt.Sprintf("merge %s into %q", label, existing.Summary)}, nil
}

// ReconcileBlock merges one label into the hold of a day.
func (e *Engine) ReconcileBlock(ctx context.Context, day calendar.Date, label, blockKey, bookingKey string, opts Options) (*Plan, Applied, error) {
	a, err := e.PlanBlock(ctx, day, label, blockKey, bookingKey)
	if err != nil {
		return nil, Applied{}, err
	}
	plan := &Plan{}
	plan.add(a)
	applied, err := e.ApplyPlan(ctx, plan, opts)
	return plan, applied, err
}
