package rules

import (
	"time"

	"calendar-agent/core/booking"
	"calendar-agent/core/identity"
)

// Buffer labels, also used as record summaries.
const (
	LabelCheckIn    = "CHECK-IN BUFFER"
	LabelTurnover   = "TURNOVER"
	LabelEvent      = "EVENT"
	LabelPhotoshoot = "PHOTOSHOOT"
)

// BufferWindow is a reserved span around a booking that is not itself occupied.
type BufferWindow struct {
	Start time.Time
	End   time.Time
	Label string
	// Slot distinguishes the windows of one booking.
	Slot string
	// Key is the record key of the owning booking, filled by Owned.
	Key string
}

// Duration returns End - Start.
func (w BufferWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Buffers maps a booking kind and window to its buffer windows.
func Buffers(kind booking.Kind, start, end time.Time) ([]BufferWindow, error) {
	if !end.After(start) {
		return nil, &InvalidWindowError{Start: start, End: end}
	}

	var out []BufferWindow
	switch kind {
	case booking.KindLodging:
		out = []BufferWindow{
			{Start: start.Add(-2 * time.Hour), End: start, Label: LabelCheckIn, Slot: identity.SlotCheckIn},
			{Start: end, End: end.Add(2 * time.Hour), Label: LabelTurnover, Slot: identity.SlotTurnover},
		}
	case booking.KindEvent:
		out = []BufferWindow{
			{Start: start.Add(-time.Hour), End: end.Add(2 * time.Hour), Label: LabelEvent, Slot: identity.SlotBuffer},
		}
	case booking.KindPhotoshoot:
		out = []BufferWindow{
			{Start: start.Add(-time.Hour), End: end.Add(time.Hour), Label: LabelPhotoshoot, Slot: identity.SlotBuffer},
		}
	default:
		return nil, &UnknownBookingKindError{Kind: kind}
	}

	for _, w := range out {
		if w.Duration() <= 0 {
			return nil, &InvalidWindowError{Start: w.Start, End: w.End}
		}
	}
	return out, nil
}

// Owned stamps each window with the record key derived from the booking key.
func Owned(key identity.Key, windows []BufferWindow) []BufferWindow {
	out := make([]BufferWindow, len(windows))
	for i, w := range windows {
		w.Key = key.Slot(w.Slot)
		out[i] = w
	}
	return out
}

// BlockLabel returns the day label a kind contributes to a block record.
// Lodging does not produce block days.
func BlockLabel(kind booking.Kind) (string, bool) {
	switch kind {
	case booking.KindEvent:
		return LabelEvent, true
	case booking.KindPhotoshoot:
		return LabelPhotoshoot, true
	}
	return "", false
}
