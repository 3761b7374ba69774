package cmd

import (
	"context"
	"fmt"
	"strings"

	"calendar-agent/core/calendar"
	"calendar-agent/core/identity"
	"calendar-agent/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var blockLabel string

// blockCmd places manual all-day holds.
var blockCmd = &cobra.Command{
	Use:   "block DATE...",
	Short: "Hold whole days on the rental calendar by hand",
	Long: `Merge a label into the all-day hold of each given day, creating the hold
when the day has none. Holds placed this way are removed with
"cancel --manual LABEL".

Examples:
  calendar-agent block --label "owner stay" 2025-12-24 2025-12-25
  calendar-agent block --label private 2025-12-31 --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBlock,
}

func init() {
	blockCmd.Flags().StringVar(&blockLabel, "label", "", "Hold label")
	_ = blockCmd.MarkFlagRequired("label")
	addApplyFlags(blockCmd)
	RootCmd.AddCommand(blockCmd)
}

// parseDays parses YYYY-MM-DD arguments, dropping repeats and keeping order.
func parseDays(args []string) ([]calendar.Date, error) {
	seen := make(map[calendar.Date]bool, len(args))
	days := make([]calendar.Date, 0, len(args))
	for _, a := range args {
		d, err := calendar.ParseDate(strings.TrimSpace(a))
		if err != nil {
			return nil, err
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	return days, nil
}

func runBlock(cmd *cobra.Command, args []string) error {
	label := strings.TrimSpace(blockLabel)
	if label == "" {
		return fmt.Errorf("--label must not be empty")
	}
	days, err := parseDays(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	opts := reconcile.Apply
	if dryRun {
		opts = reconcile.Options{DryRun: true}
	}
	bookingKey := identity.ManualBooking(label)
	l := rt.logger.With(zap.String("key", bookingKey))

	var errs error
	for _, d := range days {
		dl := l.With(zap.String("day", d.String()))
		plan, applied, err := rt.engine.ReconcileBlock(ctx, d, label, identity.ManualBlock(label, d), bookingKey, opts)
		if plan != nil {
			printPlan(dl, "Block plan", plan)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", d, err))
			continue
		}
		if !dryRun {
			printApplied(dl, applied)
		}
	}
	if dryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	if errs != nil {
		return fmt.Errorf("block incomplete: %w", errs)
	}
	return nil
}
