package cmd

import (
	"fmt"
	"os"

	"calendar-agent/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "calendar-agent",
	Short: "Booking reconciliation agent for shared resource calendars",
	Long: `Calendar Agent keeps the shared calendars of a multi-use property in line
with bookings from several platforms: buffers around every booking, merged
all-day holds for the rental unit, and clean removal on cancellation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level: readable errors with ISO8601 timestamps.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
