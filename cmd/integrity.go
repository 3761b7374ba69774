package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"calendar-agent/core/storage"
	"calendar-agent/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag  bool
	feedFlag bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database, feed and calendars the agent writes to",
	Long: `Compares the database tables with their models, inspects the published
feed and lists every configured calendar, reporting days on the blocks calendar
that carry more than one agent hold. The report is printed as JSON.

The feed is checked when publishing is enabled or --feed is set. With --fix a
missing feed bucket is created.`,
	RunE: runIntegrity,
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the feed bucket when it is missing")
	integrityCmd.Flags().BoolVar(&feedFlag, "feed", false, "Check the feed even when publishing is disabled")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrity(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	var client storage.Client
	if rt.cfg.Feed.Enabled || feedFlag || fixFlag {
		if client, err = storage.NewClient(rt.cfg.Storage); err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	svc := integrity.NewService(rt.integritySources(client), rt.logger)
	if fixFlag {
		if err := svc.FixFeed(ctx); err != nil {
			return fmt.Errorf("failed to fix feed bucket: %w", err)
		}
		rt.logger.Info("Feed bucket ready", zap.String("bucket", rt.cfg.Storage.Bucket))
	}

	report := svc.RunAll(ctx)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
