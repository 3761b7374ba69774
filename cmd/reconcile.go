package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"calendar-agent/core/booking"
	"calendar-agent/core/calendar"
	"calendar-agent/core/identity"
	"calendar-agent/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Booking flags shared by sync and update
	bookingSource   string
	bookingKind     string
	bookingID       string
	bookingGuest    string
	bookingStart    string
	bookingEnd      string
	bookingLocation string

	// Flags for cancel
	cancelKey    string
	cancelManual string
	cancelFrom   string
	cancelTo     string

	dryRun     bool
	yesConfirm bool
)

// syncCmd places or refreshes the records of one booking.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create or refresh the calendar records of a booking",
	Long: `Place the reservation, buffers and all-day holds a booking needs.
Running it again for the same booking changes nothing.

Examples:
  # Event in the Disco space
  calendar-agent sync --source peerspace --kind event --id Alex \
    --start 2025-12-01T19:00:00-05:00 --end 2025-12-01T22:00:00-05:00 --location Disco

  # Stay in the Upstairs unit; dates get the standard check-in and check-out times
  calendar-agent sync --source airbnb --kind lodging --id HM42 --guest "Susan Smith" \
    --start 2025-12-03 --end 2025-12-05 --location Upstairs

  # Show the plan only
  calendar-agent sync ... --dry-run`,
	RunE: runSync,
}

// updateCmd moves a booking.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Move a booking: sweep its prior records, then sync it",
	Long: `Remove every record of the booking's source and external id within the
sweep window around the new time, then sync the booking again.
Asks for confirmation before deleting unless --yes is given.`,
	RunE: runUpdate,
}

// cancelCmd removes a booking.
var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Remove a booking's records and unmerge its holds",
	Long: `Delete a booking's buffers and reservation, and remove its label from
shared all-day holds (deleting a hold once nothing remains).

Examples:
  # By exact key
  calendar-agent cancel --key "ps|Alex|event|2025-12-01"

  # Every record of a guest on the event platform
  calendar-agent cancel --source peerspace --id Alex --yes

  # Manual holds
  calendar-agent cancel --manual "owner stay" --from 2025-12-20 --to 2026-01-05`,
	RunE: runCancel,
}

func addBookingFlags(c *cobra.Command) {
	c.Flags().StringVar(&bookingSource, "source", "", "Booking source (airbnb, peerspace, email)")
	c.Flags().StringVar(&bookingKind, "kind", "", "Booking kind (lodging, event, photoshoot)")
	c.Flags().StringVar(&bookingID, "id", "", "External booking id (reservation code or guest name)")
	c.Flags().StringVar(&bookingGuest, "guest", "", "Guest name")
	c.Flags().StringVar(&bookingStart, "start", "", "Start (RFC 3339, or YYYY-MM-DD for stays)")
	c.Flags().StringVar(&bookingEnd, "end", "", "End (RFC 3339, or YYYY-MM-DD for stays)")
	c.Flags().StringVar(&bookingLocation, "location", "", "Location (Disco, Upstairs)")
	for _, f := range []string{"source", "kind", "id", "start", "end", "location"} {
		_ = c.MarkFlagRequired(f)
	}
}

func addApplyFlags(c *cobra.Command) {
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	c.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
}

func init() {
	addBookingFlags(syncCmd)
	addBookingFlags(updateCmd)

	cancelCmd.Flags().StringVar(&cancelKey, "key", "", "Exact booking key")
	cancelCmd.Flags().StringVar(&cancelManual, "manual", "", "Label of holds placed with the block command")
	cancelCmd.Flags().StringVar(&bookingSource, "source", "", "Booking source, with --id")
	cancelCmd.Flags().StringVar(&bookingID, "id", "", "External booking id, with --source")
	cancelCmd.Flags().StringVar(&cancelFrom, "from", "", "Window start (YYYY-MM-DD)")
	cancelCmd.Flags().StringVar(&cancelTo, "to", "", "Window end, exclusive (YYYY-MM-DD)")

	for _, c := range []*cobra.Command{syncCmd, updateCmd, cancelCmd} {
		addApplyFlags(c)
		RootCmd.AddCommand(c)
	}
}

func eventFromFlags(rt *runtime) (booking.Event, error) {
	source, err := booking.ParseSource(bookingSource)
	if err != nil {
		return booking.Event{}, err
	}
	start, startIsDate, err := calendar.ParseInstant(bookingStart, rt.loc)
	if err != nil {
		return booking.Event{}, err
	}
	end, endIsDate, err := calendar.ParseInstant(bookingEnd, rt.loc)
	if err != nil {
		return booking.Event{}, err
	}

	kind := booking.ParseKind(bookingKind)
	if kind == booking.KindLodging && startIsDate && endIsDate {
		start, end = rt.engine.Rules().CompleteLodging(calendar.DateOf(start), calendar.DateOf(end))
	}

	ev := booking.Event{
		Source:     source,
		Kind:       kind,
		ExternalID: bookingID,
		GuestName:  bookingGuest,
		Start:      start,
		End:        end,
		Location:   bookingLocation,
	}
	return ev, ev.Validate()
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	ev, err := eventFromFlags(rt)
	if err != nil {
		return err
	}
	l := rt.logger.With(zap.String("booking", ev.String()))

	plan, err := rt.engine.PlanSync(ctx, ev)
	if err != nil {
		return fmt.Errorf("failed to plan sync: %w", err)
	}
	printPlan(l, "Sync plan", plan)

	if dryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if plan.Summary.Writes() == 0 {
		l.Info("Calendars already up to date.")
		return nil
	}
	// Sync never deletes; adoption and merges are safe to apply unprompted.
	applied, err := rt.engine.ApplyPlan(ctx, plan, reconcile.Apply)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	printApplied(l, applied)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	ev, err := eventFromFlags(rt)
	if err != nil {
		return err
	}
	l := rt.logger.With(zap.String("booking", ev.String()))

	sweep, err := rt.engine.PlanUpdate(ctx, ev)
	if err != nil {
		return fmt.Errorf("failed to plan update: %w", err)
	}
	printPlan(l, "Sweep plan", sweep)

	if dryRun {
		syncPlan, err := rt.engine.PlanSync(ctx, ev)
		if err != nil {
			return fmt.Errorf("failed to plan sync: %w", err)
		}
		printPlan(l, "Sync plan (before sweep)", syncPlan)
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if sweep.HasDeletes() && !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	res, err := rt.engine.Update(ctx, ev, reconcile.Apply)
	l.Info("Update finished",
		zap.Int("swept", res.Sweep.Deleted),
		zap.Int("unmerged", res.Sweep.Patched),
		zap.Int("sweep_failures", res.Sweep.Failed),
	)
	printApplied(l, res.Synced)
	if err != nil {
		return fmt.Errorf("update incomplete: %w", err)
	}
	return nil
}

func cancelTarget(rt *runtime) (reconcile.Target, error) {
	var t reconcile.Target
	switch {
	case cancelKey != "":
		if _, err := identity.Parse(cancelKey); err != nil {
			return t, err
		}
		t.Key = cancelKey
	case cancelManual != "":
		t.Key = identity.ManualBooking(cancelManual)
	case bookingSource != "" && bookingID != "":
		source, err := booking.ParseSource(bookingSource)
		if err != nil {
			return t, err
		}
		t.Prefix = identity.SweepPrefix(source, bookingID)
	default:
		return t, fmt.Errorf("one of --key, --manual, or --source with --id is required")
	}

	for _, w := range []struct {
		val string
		dst *time.Time
	}{{cancelFrom, &t.Start}, {cancelTo, &t.End}} {
		if w.val == "" {
			continue
		}
		d, err := calendar.ParseDate(w.val)
		if err != nil {
			return t, err
		}
		*w.dst = d.In(rt.loc)
	}
	return t, nil
}

func runCancel(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	t, err := cancelTarget(rt)
	if err != nil {
		return err
	}
	l := rt.logger.With(zap.String("key", t.Key), zap.String("prefix", t.Prefix))

	plan, err := rt.engine.PlanCancel(ctx, t)
	if err != nil {
		return fmt.Errorf("failed to plan cancel: %w", err)
	}
	printPlan(l, "Cancel plan", plan)

	if dryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if plan.Summary.Writes() == 0 {
		l.Info("No records found for this booking.")
		return nil
	}
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	applied, err := rt.engine.ApplyPlan(ctx, plan, reconcile.Apply)
	printApplied(l, applied)
	if err != nil {
		return fmt.Errorf("cancel incomplete: %w", err)
	}
	return nil
}

// printPlan prints a plan report using logger.
func printPlan(l *zap.Logger, title string, plan *reconcile.Plan) {
	s := plan.Summary
	l.Info(title,
		zap.Int("inserts", s.Inserts),
		zap.Int("adoptions", s.Adoptions),
		zap.Int("patches", s.Patches),
		zap.Int("deletes", s.Deletes),
		zap.Int("noops", s.Noops),
	)

	const maxShow = 10
	for i, a := range plan.Actions {
		if i == maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
			break
		}
		l.Info("Planned action",
			zap.String("type", string(a.Type)),
			zap.String("calendar", a.Calendar),
			zap.String("key", a.Key),
			zap.String("reason", a.Reason),
		)
	}
}

func printApplied(l *zap.Logger, a reconcile.Applied) {
	l.Info("Applied actions",
		zap.Int("inserted", a.Inserted),
		zap.Int("adopted", a.Adopted),
		zap.Int("patched", a.Patched),
		zap.Int("deleted", a.Deleted),
		zap.Int("failed", a.Failed),
	)
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
