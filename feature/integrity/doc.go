// Package integrity reports on the health of what the agent writes to.
//
// Three checks are available, each skipped when its source is not configured:
//
//   - schema: the calendar_events and processed_messages tables are compared
//     column by column against their GORM models.
//   - feed: the feed bucket exists and the published object is an iCalendar
//     document. With fix=true a missing bucket is created.
//   - calendars: every configured calendar answers a one-day listing, and no
//     day on the blocks calendar carries more than one agent hold.
//
// Routes are mounted under /integrity; the integrity command runs the same
// checks from the CLI.
package integrity
