package cmd

import (
	"context"
	"fmt"

	"calendar-agent/core/booking"
	"calendar-agent/core/calendar"
	"calendar-agent/core/rules"

	"github.com/spf13/cobra"
)

var blocksKind string

// blocksCmd previews the days a booking would block.
var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Preview the days a booking would block on the rental calendar",
	Long: `Compute the all-day holds a booking produces without touching any calendar.

Example:
  calendar-agent blocks --kind event --start 2025-12-02T10:00:00-05:00 --end 2025-12-02T12:00:00-05:00`,
	RunE: runBlocks,
}

func init() {
	blocksCmd.Flags().StringVar(&blocksKind, "kind", "event", "Booking kind (event, photoshoot, lodging)")
	blocksCmd.Flags().StringVar(&bookingStart, "start", "", "Start (RFC 3339)")
	blocksCmd.Flags().StringVar(&bookingEnd, "end", "", "End (RFC 3339)")
	_ = blocksCmd.MarkFlagRequired("start")
	_ = blocksCmd.MarkFlagRequired("end")
	RootCmd.AddCommand(blocksCmd)
}

func runBlocks(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(context.Background())
	if err != nil {
		return err
	}
	defer rt.close()

	start, _, err := calendar.ParseInstant(bookingStart, rt.loc)
	if err != nil {
		return err
	}
	end, _, err := calendar.ParseInstant(bookingEnd, rt.loc)
	if err != nil {
		return err
	}

	kind := booking.ParseKind(blocksKind)
	label, ok := rules.BlockLabel(kind)
	if !ok {
		// Still reject unknown kinds and bad windows.
		if _, err := rules.Buffers(kind, start, end); err != nil {
			return err
		}
		fmt.Printf("%s bookings do not block days\n", kind)
		return nil
	}

	dates, err := rt.engine.Rules().BlockDateList(start, end)
	if err != nil {
		return err
	}
	for _, d := range dates {
		fmt.Printf("%s\t%s\n", d, label)
	}
	return nil
}
