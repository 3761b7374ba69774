// Package booking defines the normalized booking event consumed by the
// reconciliation engine.
//
// Upstream collaborators (platform confirmation parsers, email extraction)
// produce Event values with timezone-aware start and end times. The core never
// mutates an Event; it derives buffers, block dates and identity keys from it.
package booking
