// Package rules holds the pure scheduling rules of the properties.
//
// Buffers maps a booking kind and window to the buffer windows reserved
// around it. Engine.BlockDates maps an activity window to the whole days that
// must be held on the adjacent short-term-rental unit, using the standard
// check-in time and the post-activity buffer.
//
// Nothing here performs I/O; every function is deterministic for a fixed
// policy and can be tested without a calendar store.
package rules
