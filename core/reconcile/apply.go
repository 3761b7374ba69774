package reconcile

import (
	"context"
	"errors"
	"fmt"

	"calendar-agent/core/calendar"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ApplyPlan executes the actions of a plan in order.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
// A regular plan stops at the first failure; a best-effort plan keeps going
// and returns every failure combined.
func (e *Engine) ApplyPlan(ctx context.Context, plan *Plan, opts Options) (Applied, error) {
	var applied Applied
	if plan == nil || !opts.Confirmed || opts.DryRun {
		return applied, nil
	}

	var errs error
	for _, a := range plan.Actions {
		err := e.apply(ctx, a)
		if err == nil {
			applied.count(a.Type)
			continue
		}
		err = fmt.Errorf("%s %s on %s: %w", a.Type, a.Key, a.Calendar, err)
		if !plan.BestEffort {
			return applied, err
		}
		applied.Failed++
		e.logger.Warn("Action failed", zap.String("type", string(a.Type)), zap.String("key", a.Key), zap.Error(err))
		errs = multierr.Append(errs, err)
	}
	return applied, errs
}

func (e *Engine) apply(ctx context.Context, a Action) error {
	switch a.Type {
	case ActionNoop:
		return nil
	case ActionInsert:
		if a.Record == nil {
			return errors.New("insert without record")
		}
		rec, err := e.store.Insert(ctx, a.Calendar, *a.Record)
		if err != nil {
			return err
		}
		e.logger.Info("Inserted record", zap.String("calendar", a.Calendar), zap.String("id", rec.ID), zap.String("key", a.Key))
		return nil
	case ActionAdopt, ActionPatch:
		if a.Patch == nil {
			return errors.New("patch without fields")
		}
		if _, err := e.store.Patch(ctx, a.Calendar, a.RecordID, *a.Patch); err != nil {
			return err
		}
		e.logger.Info("Patched record", zap.String("type", string(a.Type)), zap.String("calendar", a.Calendar), zap.String("id", a.RecordID), zap.String("key", a.Key))
		return nil
	case ActionDelete:
		err := e.store.Delete(ctx, a.Calendar, a.RecordID)
		if errors.Is(err, calendar.ErrNotFound) {
			e.logger.Debug("Record already gone", zap.String("calendar", a.Calendar), zap.String("id", a.RecordID))
			return nil
		}
		if err != nil {
			return err
		}
		e.logger.Info("Deleted record", zap.String("calendar", a.Calendar), zap.String("id", a.RecordID), zap.String("key", a.Key))
		return nil
	}
	return fmt.Errorf("unknown action type %q", a.Type)
}

func (a *Applied) count(t ActionType) {
	switch t {
	case ActionInsert:
		a.Inserted++
	case ActionAdopt:
		a.Adopted++
	case ActionPatch:
		a.Patched++
	case ActionDelete:
		a.Deleted++
	}
}
