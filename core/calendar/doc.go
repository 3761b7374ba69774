// Package calendar defines the record model and the store contract the
// reconciliation engine drives.
//
// A Record is either timed or all-day and carries an opaque properties bag;
// the bag is the only place identity keys are kept. Store is implemented by
// MemoryStore here, by the sqlstore package on top of GORM and by the google
// package on top of the Google Calendar API.
package calendar
