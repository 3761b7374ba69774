package rules

import (
	"fmt"
	"time"

	"calendar-agent/core/booking"
)

// UnknownBookingKindError is returned when no buffer rule exists for a kind.
type UnknownBookingKindError struct {
	Kind booking.Kind
}

func (e *UnknownBookingKindError) Error() string {
	return fmt.Sprintf("unknown booking kind %q", string(e.Kind))
}

// InvalidWindowError is returned when a booking or a computed window does not
// have a positive duration.
type InvalidWindowError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window: end %s is not after start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}
