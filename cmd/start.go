package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calendar-agent/core/loader"
	"calendar-agent/core/logger"
	"calendar-agent/core/middleware/auth"
	"calendar-agent/core/middleware/rayid"
	"calendar-agent/core/storage"
	"calendar-agent/feature/intake"
	"calendar-agent/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "calendar-agent/docs/swagger"
)

// @title Calendar Agent API
// @version 1.0
// @description Booking intake for the shared resource calendars.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the booking intake server",
	Long:  `Starts the HTTP intake server and, when enabled, the scheduled feed publisher.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Configuration, logger, store and engine
		rt, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.close()
		logg := rt.logger
		zap.ReplaceGlobals(logg)

		// 2. Scheduled feed publishing (Optional)
		var scheduler *cron.Cron
		var client storage.Client
		if rt.cfg.Feed.Enabled {
			client, err = storage.NewClient(rt.cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			if err := storage.EnsureBucket(ctx, client, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region); err != nil {
				logg.Warn("Feed bucket not ready", zap.Error(err))
			}
			scheduler = cron.New(cron.WithLocation(rt.loc))
			if _, err := newPublisher(rt, client).Schedule(scheduler, time.Minute); err != nil {
				logg.Fatal("Failed to schedule feed", zap.Error(err))
			}
			scheduler.Start()
			logg.Info("Feed publishing scheduled", zap.String("schedule", rt.cfg.Feed.Schedule))
		}

		// 3. Fiber app
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimit(),
		})

		// 4. Feature loader
		mgr := loader.NewManager(logg)
		mgr.Register(intake.NewFeature(rt.engine, rt.db, logg))
		mgr.Register(integrity.NewFeature(rt.integritySources(client), logg))

		// RayID first so every log line carries it
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		if !rt.cfg.Server.Protected() {
			logg.Warn("No API key configured; intake endpoints are open")
		}
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Serve
		go func() {
			logg.Info("Starting server", zap.String("addr", rt.cfg.Server.Addr()))
			if err := app.Listen(rt.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
