package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"calendar-agent/core/booking"
	"calendar-agent/core/calendar"
)

const sep = "|"

// Record slots derived from a booking key.
const (
	SlotReservation = "reservation"
	SlotBuffer      = "buffer"
	SlotCheckIn     = "checkin"
	SlotTurnover    = "turnover"
	SlotBlock       = "block"
)

// ErrEmptyExternalID is returned when a key is built without an external identifier.
var ErrEmptyExternalID = errors.New("identity: external id is empty")

// Key identifies one logical booking across repeated runs.
// The zero Date means the key carries no date component.
type Key struct {
	Source     booking.Source
	Kind       booking.Kind
	ExternalID string
	Date       calendar.Date
}

// New builds a key. The external id is trimmed, inner whitespace is collapsed
// and reserved separators are replaced so the serialization stays reversible.
func New(source booking.Source, kind booking.Kind, externalID string, date calendar.Date) (Key, error) {
	id := normalizeID(externalID)
	if id == "" {
		return Key{}, ErrEmptyExternalID
	}
	if _, err := Tag(source); err != nil {
		return Key{}, err
	}
	return Key{Source: source, Kind: kind, ExternalID: id, Date: date}, nil
}

// ForEvent builds the booking key of an event, dated by its local start day in loc.
func ForEvent(ev booking.Event, loc *time.Location) (Key, error) {
	return New(ev.Source, ev.Kind, ev.ExternalID, calendar.DateOf(ev.Start.In(loc)))
}

// String is the canonical serialization: tag|external_id|kind[|YYYY-MM-DD].
func (k Key) String() string {
	tag, _ := Tag(k.Source)
	parts := []string{tag, k.ExternalID, string(k.Kind)}
	if !k.Date.IsZero() {
		parts = append(parts, k.Date.String())
	}
	return strings.Join(parts, sep)
}

// Prefix returns the sweep prefix shared by every key of the same source and
// external id, regardless of kind or date.
func (k Key) Prefix() string {
	return SweepPrefix(k.Source, k.ExternalID)
}

// Slot returns the record key of a timed record owned by the booking.
func (k Key) Slot(slot string) string {
	return k.String() + sep + slot
}

// Block returns the record key of the booking's contribution to a block day.
func (k Key) Block(d calendar.Date) string {
	return k.String() + sep + SlotBlock + sep + d.String()
}

// SweepPrefix builds tag|external_id| without a full key.
func SweepPrefix(source booking.Source, externalID string) string {
	tag, _ := Tag(source)
	return tag + sep + normalizeID(externalID) + sep
}

// ManualTag leads the keys of holds placed by hand rather than by a booking.
const ManualTag = "manual"

// ManualBooking returns the key shared by every manual hold with label.
// It is not a booking key and Parse rejects it.
func ManualBooking(label string) string {
	return ManualTag + sep + strings.ToUpper(normalizeID(label))
}

// ManualBlock returns the record key of a manual hold on d.
func ManualBlock(label string, d calendar.Date) string {
	return ManualBooking(label) + sep + SlotBlock + sep + d.String()
}

// Parse inverts Key.String.
func Parse(s string) (Key, error) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 && len(parts) != 4 {
		return Key{}, fmt.Errorf("identity: malformed key %q", s)
	}
	source, err := booking.ParseSource(parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("identity: %w", err)
	}
	var d calendar.Date
	if len(parts) == 4 {
		if d, err = calendar.ParseDate(parts[3]); err != nil {
			return Key{}, fmt.Errorf("identity: %w", err)
		}
	}
	return New(source, booking.Kind(parts[2]), parts[1], d)
}

// Tag returns the short source tag used in keys.
func Tag(source booking.Source) (string, error) {
	switch source {
	case booking.SourceLodgingPlatform:
		return "ab", nil
	case booking.SourceEventPlatform:
		return "ps", nil
	case booking.SourceEmail:
		return "em", nil
	}
	return "", fmt.Errorf("identity: unknown source %q", source)
}

// reserved holds the key separator and the separator of block contribution lists.
var reserved = strings.NewReplacer(sep, "/", ";", "/")

func normalizeID(s string) string {
	return reserved.Replace(strings.Join(strings.Fields(s), " "))
}
