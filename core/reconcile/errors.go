package reconcile

import (
	"errors"
	"fmt"

	"calendar-agent/core/calendar"
)

// ErrUnknownLocation is returned when a booking targets a location without a calendar.
var ErrUnknownLocation = errors.New("reconcile: no calendar configured for location")

// AmbiguousAdoptionError describes an adoption with more than one manual
// candidate. It is logged, never returned: the earliest candidate is adopted.
type AmbiguousAdoptionError struct {
	Calendar   string
	Summary    string
	Day        calendar.Date
	Candidates []string
	Chosen     string
}

func (e *AmbiguousAdoptionError) Error() string {
	return fmt.Sprintf("ambiguous adoption of %q on %s in %s: %d candidates, chose %s",
		e.Summary, e.Day, e.Calendar, len(e.Candidates), e.Chosen)
}
