package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Source identifies the upstream system a booking arrived from.
type Source string

const (
	// SourceLodgingPlatform is the short-term-rental platform.
	SourceLodgingPlatform Source = "lodging-platform"
	// SourceEventPlatform is the event-space platform.
	SourceEventPlatform Source = "event-platform"
	// SourceEmail is a booking extracted from an inbound email.
	SourceEmail Source = "email"
)

// Kind is the type of activity being booked.
type Kind string

const (
	// KindLodging is an overnight stay.
	KindLodging Kind = "lodging"
	// KindEvent is a private event.
	KindEvent Kind = "event"
	// KindPhotoshoot is a photo or video production.
	KindPhotoshoot Kind = "photoshoot"
)

// ErrMissingExternalID is returned when an event carries no external identifier.
var ErrMissingExternalID = errors.New("booking: external id is required")

// Event is a normalized booking produced by an upstream parser.
// It is immutable once received and consumed once by the reconciliation engine.
type Event struct {
	// Source is the upstream system.
	Source Source `json:"source"`
	// Kind is the booked activity.
	Kind Kind `json:"kind"`
	// ExternalID identifies the booking upstream (reservation code, or the
	// guest name when the source exposes nothing better).
	ExternalID string `json:"external_id"`
	// GuestName is the guest or contact name.
	GuestName string `json:"guest_name"`
	// Start is the beginning of the booking.
	Start time.Time `json:"start"`
	// End is the end of the booking.
	End time.Time `json:"end"`
	// Location is the target space (e.g. "Disco", "Upstairs").
	Location string `json:"location"`
}

// Validate checks the fields every downstream rule relies on.
// The window itself is validated by the rules package.
func (e Event) Validate() error {
	if strings.TrimSpace(e.ExternalID) == "" {
		return ErrMissingExternalID
	}
	return nil
}

// String renders a short description for logs.
func (e Event) String() string {
	return fmt.Sprintf("%s/%s %s (%s -> %s @ %s)", e.Source, e.Kind, e.ExternalID,
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Location)
}

// ParseSource maps a source name or platform alias onto a Source.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SourceLodgingPlatform), "airbnb", "ab":
		return SourceLodgingPlatform, nil
	case string(SourceEventPlatform), "peerspace", "ps":
		return SourceEventPlatform, nil
	case string(SourceEmail), "gmail", "em":
		return SourceEmail, nil
	default:
		return "", fmt.Errorf("unknown booking source %q", s)
	}
}

// ParseKind normalizes a kind name. Unknown kinds are passed through unchanged
// so the rules engine can reject them with a typed error.
func ParseKind(s string) Kind {
	k := strings.ToLower(strings.TrimSpace(s))
	switch k {
	case "stay", "reservation":
		return KindLodging
	case "shoot", "production":
		return KindPhotoshoot
	}
	return Kind(k)
}
