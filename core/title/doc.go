// Package title merges and unmerges the labels shown on a shared block day.
//
// When several bookings hold the same day, the day carries one all-day record
// whose title lists every contribution, e.g. "EVENT + 2X PHOTOSHOOTS". State is
// the label multiset behind such a title; Parse and Render are inverse on every
// reachable state.
package title
