package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"calendar-agent/core/booking"
	"calendar-agent/core/calendar"
	"calendar-agent/core/identity"
	"calendar-agent/core/logger"
	"calendar-agent/core/reconcile"
	"calendar-agent/core/rules"

	"go.uber.org/zap"
)

// ErrInvalidRequest marks requests rejected before reaching the engine.
var ErrInvalidRequest = errors.New("invalid request")

// Service runs reconciliation passes for posted bookings, one at a time.
type Service struct {
	engine *reconcile.Engine
	ledger Ledger
	logger *zap.Logger

	// mu serializes passes: the engine assumes a single writer.
	mu sync.Mutex
}

// NewService creates a new intake service.
func NewService(engine *reconcile.Engine, ledger Ledger, logger *zap.Logger) *Service {
	if ledger == nil {
		ledger = nopLedger{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, ledger: ledger, logger: logger}
}

func options(dryRun bool) reconcile.Options {
	return reconcile.Options{DryRun: dryRun, Confirmed: true}
}

func status(dryRun bool) string {
	if dryRun {
		return StatusPlanned
	}
	return StatusApplied
}

// duplicate reports whether the message was already applied.
func (s *Service) duplicate(ctx context.Context, messageID string) (bool, error) {
	if messageID == "" {
		return false, nil
	}
	return s.ledger.Seen(ctx, messageID)
}

func (s *Service) remember(ctx context.Context, messageID, op, key string, dryRun bool) {
	if messageID == "" || dryRun {
		return
	}
	if err := s.ledger.Mark(ctx, messageID, op, key); err != nil {
		s.logger.Warn("Failed to record processed message", zap.String("message_id", messageID), zap.Error(err))
	}
}

func (s *Service) event(req BookingRequest) (booking.Event, identity.Key, error) {
	ev, err := req.Event()
	if err != nil {
		return booking.Event{}, identity.Key{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	key, err := identity.ForEvent(ev, s.engine.Rules().Location())
	if err != nil {
		return booking.Event{}, identity.Key{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return ev, key, nil
}

// Sync creates or refreshes the records of a booking.
func (s *Service) Sync(ctx context.Context, req BookingRequest) (Outcome, error) {
	ev, key, err := s.event(req)
	if err != nil {
		return Outcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dup, err := s.duplicate(ctx, req.MessageID); err != nil || dup {
		return Outcome{Status: StatusDuplicate, BookingKey: key.String()}, err
	}

	l := logger.WithBooking(s.logger, key.String())
	plan, applied, err := s.engine.Sync(ctx, ev, options(req.DryRun))
	if err != nil {
		l.Error("Sync failed", zap.Error(err))
		return Outcome{}, err
	}
	s.remember(ctx, req.MessageID, "sync", key.String(), req.DryRun)
	l.Info("Booking synced", zap.Int("writes", plan.Summary.Writes()), zap.Bool("dry_run", req.DryRun))

	return Outcome{
		Status:     status(req.DryRun),
		BookingKey: key.String(),
		Summary:    plan.Summary,
		Applied:    applied,
		Actions:    viewActions(plan),
	}, nil
}

// Update moves a booking: prior records are swept, then the booking is synced.
func (s *Service) Update(ctx context.Context, req BookingRequest) (Outcome, error) {
	ev, key, err := s.event(req)
	if err != nil {
		return Outcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dup, err := s.duplicate(ctx, req.MessageID); err != nil || dup {
		return Outcome{Status: StatusDuplicate, BookingKey: key.String()}, err
	}

	l := logger.WithBooking(s.logger, key.String())
	var sweepPlan *reconcile.Plan
	if req.DryRun {
		// Only shown: the engine applies nothing on a dry run.
		if sweepPlan, err = s.engine.PlanUpdate(ctx, ev); err != nil {
			return Outcome{}, err
		}
	}
	res, err := s.engine.Update(ctx, ev, options(req.DryRun))
	out := Outcome{
		Status:     status(req.DryRun),
		BookingKey: key.String(),
		Applied:    res.Synced,
		Sweep:      &res.Sweep,
		Actions:    viewActions(sweepPlan, res.SyncPlan),
	}
	if res.SyncPlan != nil {
		out.Summary = res.SyncPlan.Summary
	}
	if err != nil {
		// Partial sweeps still report what was removed and re-synced.
		l.Error("Update incomplete", zap.Int("deleted", res.Sweep.Deleted), zap.Int("failed", res.Sweep.Failed), zap.Error(err))
		return out, err
	}
	s.remember(ctx, req.MessageID, "update", key.String(), req.DryRun)
	l.Info("Booking updated", zap.Int("swept", res.Sweep.Deleted), zap.Bool("dry_run", req.DryRun))
	return out, nil
}

// Target converts the request into a cancellation target.
func (r CancelRequest) Target() (reconcile.Target, error) {
	var t reconcile.Target
	switch {
	case r.Key != "":
		if _, err := identity.Parse(r.Key); err != nil {
			return t, err
		}
		t.Key = r.Key
	case r.ExternalID != "":
		source, err := booking.ParseSource(r.Source)
		if err != nil {
			return t, err
		}
		t.Prefix = identity.SweepPrefix(source, r.ExternalID)
	default:
		return t, errors.New("key or source and external_id are required")
	}
	if r.Start != nil {
		t.Start = *r.Start
	}
	if r.End != nil {
		t.End = *r.End
	}
	return t, nil
}

// Cancel removes a booking's records and unmerges its labels from shared holds.
func (s *Service) Cancel(ctx context.Context, req CancelRequest) (Outcome, error) {
	t, err := req.Target()
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	ref := t.Key
	if ref == "" {
		ref = t.Prefix
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dup, err := s.duplicate(ctx, req.MessageID); err != nil || dup {
		return Outcome{Status: StatusDuplicate, BookingKey: ref}, err
	}

	l := logger.WithBooking(s.logger, ref)
	res, plan, err := s.engine.Cancel(ctx, t, options(req.DryRun))
	out := Outcome{Status: status(req.DryRun), BookingKey: ref, Sweep: &res}
	if plan != nil {
		out.Summary = plan.Summary
		out.Actions = viewActions(plan)
	}
	if err != nil {
		// Partial sweeps still report what was removed.
		l.Error("Cancel incomplete", zap.Int("deleted", res.Deleted), zap.Int("failed", res.Failed), zap.Error(err))
		return out, err
	}
	s.remember(ctx, req.MessageID, "cancel", ref, req.DryRun)
	l.Info("Booking cancelled", zap.Int("deleted", res.Deleted), zap.Int("patched", res.Patched), zap.Bool("dry_run", req.DryRun))
	return out, nil
}

// PreviewBlocks lists the days a booking of kind would block. It reads nothing.
func (s *Service) PreviewBlocks(kind booking.Kind, start, end time.Time) (BlockPreview, error) {
	out := BlockPreview{Kind: string(kind), Dates: []string{}}
	label, blocks := rules.BlockLabel(kind)
	if !blocks {
		if _, err := rules.Buffers(kind, start, end); err != nil {
			return out, err
		}
		return out, nil
	}
	dates, err := s.engine.Rules().BlockDateList(start, end)
	if err != nil {
		return out, err
	}
	out.Label = label
	for _, d := range dates {
		out.Dates = append(out.Dates, d.String())
	}
	return out, nil
}

// ParseInstant accepts RFC 3339 timestamps or local dates (YYYY-MM-DD).
func (s *Service) ParseInstant(v string) (time.Time, error) {
	t, _, err := calendar.ParseInstant(v, s.engine.Rules().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return t, nil
}
