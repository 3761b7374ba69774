package reconcile

import (
	"context"
	"fmt"
	"strings"

	"calendar-agent/core/booking"
	"calendar-agent/core/rules"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// guestTitle renders a guest name as a reservation title, falling back to the
// external id when no name is known.
func guestTitle(name, fallback string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	// Casers keep state between calls; one per call.
	return cases.Title(language.English).String(name)
}

// PlanSync plans every record a booking needs: the reservation and buffers of
// a stay, or the buffer and day holds of an event or photoshoot.
func (e *Engine) PlanSync(ctx context.Context, ev booking.Event) (*Plan, error) {
	key, err := e.bookingKey(ev)
	if err != nil {
		return nil, err
	}

	placements, err := e.bufferPlacements(ev, key, true)
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

	label, blocks := rules.BlockLabel(ev.Kind)
	if !blocks {
		return plan, nil
	}
	days, err := e.rules.BlockDateList(ev.Start, ev.End)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		a, err := e.PlanBlock(ctx, d, e.rules.HoldLabel(label, d, ev.Start), key.Block(d), key.String())
		if err != nil {
			return nil, err
		}
		plan.add(a)
	}
	return plan, nil
}

// Sync brings the store in line with one booking. Repeated syncs of the same
// booking converge to the same records.
func (e *Engine) Sync(ctx context.Context, ev booking.Event, opts Options) (*Plan, Applied, error) {
	plan, err := e.PlanSync(ctx, ev)
	if err != nil {
		return nil, Applied{}, err
	}
	e.logger.Debug("Planned sync",
		zap.String("booking", ev.String()),
		zap.Int("writes", plan.Summary.Writes()),
		zap.Int("noops", plan.Summary.Noops),
	)
	applied, err := e.ApplyPlan(ctx, plan, opts)
	return plan, applied, err
}

// PlanUpdate plans the sweep of a booking's prior records around its new
// time. The sync half is planned by PlanSync once the sweep is applied.
func (e *Engine) PlanUpdate(ctx context.Context, ev booking.Event) (*Plan, error) {
	key, err := e.bookingKey(ev)
	if err != nil {
		return nil, err
	}
	return e.PlanCancel(ctx, Target{
		Prefix: key.Prefix(),
		Start:  ev.Start.Add(-e.cfg.SweepWindow),
		End:    ev.End.Add(e.cfg.SweepWindow),
	})
}

// Update replaces a booking whose attributes changed: every record under the
// booking's source and external id near the new time is swept, then the
// booking is synced again. The old exact key may differ from the new one.
func (e *Engine) Update(ctx context.Context, ev booking.Event, opts Options) (UpdateResult, error) {
	// Fail on a bad booking before anything is removed.
	if _, err := rules.Buffers(ev.Kind, ev.Start, ev.End); err != nil {
		return UpdateResult{}, err
	}
	if _, err := e.cfg.Calendars.ForLocation(ev.Location); err != nil {
		return UpdateResult{}, err
	}

	sweepPlan, err := e.PlanUpdate(ctx, ev)
	if err != nil {
		return UpdateResult{}, err
	}
	applied, sweepErr := e.ApplyPlan(ctx, sweepPlan, opts)
	res := UpdateResult{Sweep: SweepResult{Deleted: applied.Deleted, Patched: applied.Patched, Failed: applied.Failed}}
	if sweepErr != nil {
		e.logger.Warn("Update sweep incomplete", zap.String("booking", ev.String()), zap.Error(sweepErr))
	}

	plan, synced, err := e.Sync(ctx, ev, opts)
	res.SyncPlan = plan
	res.Synced = synced
	if err != nil {
		return res, fmt.Errorf("sync after sweep: %w", err)
	}
	return res, sweepErr
}
