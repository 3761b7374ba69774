package cmd

import (
	"context"
	"fmt"
	"os"

	"calendar-agent/core/feed"
	"calendar-agent/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// feedCmd groups the block feed commands.
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Manage the ICS feed of blocked dates",
}

// feedPublishCmd renders and uploads the feed once.
var feedPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the blocks calendar as an ICS feed",
	Long: `Render the all-day holds of the blocks calendar as an iCalendar file and
upload it to the configured bucket. With --dry-run the feed is written to
stdout instead.`,
	RunE: runFeedPublish,
}

func init() {
	feedPublishCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the feed instead of uploading it")
	feedCmd.AddCommand(feedPublishCmd)
	RootCmd.AddCommand(feedCmd)
}

// newPublisher wires the feed publisher to the engine's blocks calendar.
func newPublisher(rt *runtime, client storage.Client) *feed.Publisher {
	return feed.NewPublisher(rt.store, client, rt.cfg.Storage.Bucket, rt.engine.Calendars().Blocks, rt.loc, rt.cfg.Feed, rt.logger)
}

func runFeedPublish(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if dryRun {
		body, n, err := newPublisher(rt, nil).Build(ctx)
		if err != nil {
			return err
		}
		rt.logger.Info("Rendered block feed", zap.Int("events", n))
		_, err = os.Stdout.Write(body)
		return err
	}

	client, err := storage.NewClient(rt.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region); err != nil {
		return err
	}
	res, err := newPublisher(rt, client).Publish(ctx)
	if err != nil {
		return err
	}
	rt.logger.Info("Feed published",
		zap.String("bucket", res.Bucket),
		zap.String("object", res.Object),
		zap.Int("events", res.Events),
		zap.Int64("bytes", res.Bytes),
	)
	return nil
}
