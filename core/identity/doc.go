// Package identity builds the deterministic keys that tie calendar records to
// the bookings that produced them.
//
// A Key is a typed (source, kind, external id, date) tuple with a single
// canonical serialization. Record keys for buffers and block contributions are
// derived from it, and every key of one booking shares a sweep prefix so that a
// cancellation or update can find records even after the exact key changed.
//
//	k, _ := identity.New(booking.SourceEventPlatform, booking.KindEvent, "Alex", day)
//	k.String()      // ps|Alex|event|2025-12-01
//	k.Slot("buffer") // ps|Alex|event|2025-12-01|buffer
//	k.Prefix()      // ps|Alex|
package identity
