// Package sqlstore persists calendar records in a SQL table through GORM.
//
// It backs the agent when no hosted calendar is configured, and doubles as a
// durable local mirror for dry runs against real data. Identity lookups use an
// indexed copy of the identity property; the properties bag itself is stored
// as JSON and remains the source of truth.
package sqlstore
