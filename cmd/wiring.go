package cmd

import (
	"context"
	"fmt"
	"time"

	"calendar-agent/core/calendar"
	"calendar-agent/core/calendar/google"
	"calendar-agent/core/calendar/sqlstore"
	"calendar-agent/core/config"
	"calendar-agent/core/database"
	"calendar-agent/core/logger"
	"calendar-agent/core/reconcile"
	"calendar-agent/core/rules"
	"calendar-agent/core/storage"
	"calendar-agent/feature/intake"
	"calendar-agent/feature/integrity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime is everything a command needs to run a pass.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	store  calendar.Store
	engine *reconcile.Engine
	loc    *time.Location
}

// bootstrap loads configuration and wires the store and engine for the
// configured driver.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	policy, err := cfg.Rules.Policy()
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: l, loc: policy.Location}
	calendars := reconcile.Calendars{Bookings: cfg.Calendar.Locations(), Blocks: cfg.Calendar.Blocks}

	switch cfg.Calendar.Driver {
	case calendar.DriverMemory:
		rt.store = calendar.NewMemoryStore(policy.Location)
	case calendar.DriverSQL:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := sqlstore.Migrate(db); err != nil {
			return nil, err
		}
		rt.db = db
		rt.store = sqlstore.New(db, policy.Location)
	case calendar.DriverGoogle:
		svc, err := google.NewService(ctx, cfg.Calendar.CredentialsFile)
		if err != nil {
			return nil, err
		}
		gs := google.New(svc, policy.Location, l)
		if calendars, err = resolveCalendars(ctx, gs, calendars); err != nil {
			return nil, err
		}
		rt.store = gs
		// The message ledger is optional with the google driver.
		if db, err := database.Connect(cfg.Database); err != nil {
			l.Warn("Optional database connection failed", zap.Error(err))
		} else {
			rt.db = db
		}
	default:
		return nil, fmt.Errorf("unknown calendar driver %q", cfg.Calendar.Driver)
	}

	rt.engine = reconcile.NewEngine(rt.store, rules.NewEngine(policy), reconcile.Config{
		Calendars:   calendars,
		SweepWindow: cfg.Calendar.SweepWindow(),
		Lookback:    cfg.Calendar.Lookback(),
	}, l)
	l.Debug("Engine ready",
		zap.String("driver", cfg.Calendar.Driver),
		zap.Strings("calendars", calendars.All()),
		zap.String("timezone", policy.Location.String()),
	)
	return rt, nil
}

// resolveCalendars maps configured display names onto calendar ids.
func resolveCalendars(ctx context.Context, gs *google.Store, c reconcile.Calendars) (reconcile.Calendars, error) {
	out := reconcile.Calendars{Bookings: make(map[string]string, len(c.Bookings))}
	for loc, name := range c.Bookings {
		id, err := gs.ResolveCalendar(ctx, name)
		if err != nil {
			return out, fmt.Errorf("calendar for %s: %w", loc, err)
		}
		out.Bookings[loc] = id
	}
	id, err := gs.ResolveCalendar(ctx, c.Blocks)
	if err != nil {
		return out, fmt.Errorf("blocks calendar: %w", err)
	}
	out.Blocks = id
	return out, nil
}

// integritySources points the integrity checks at what this runtime writes to.
// A nil client skips the feed check.
func (rt *runtime) integritySources(client storage.Client) integrity.Sources {
	src := integrity.Sources{
		Store:     rt.store,
		Calendars: rt.engine.Calendars(),
		Storage:   client,
		Bucket:    rt.cfg.Storage.Bucket,
		Region:    rt.cfg.Storage.Region,
		Object:    rt.cfg.Feed.Object,
		Location:  rt.loc,
		Horizon:   rt.cfg.Feed.Horizon(),
	}
	if rt.db != nil {
		src.DB = rt.db
		src.Models = []any{intake.ProcessedMessage{}}
		if rt.cfg.Calendar.Driver == calendar.DriverSQL {
			src.Models = append(src.Models, sqlstore.Model())
		}
	}
	return src
}

func (rt *runtime) close() {
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = rt.logger.Sync()
}
