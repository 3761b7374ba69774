// Package google implements calendar.Store on the Google Calendar v3 API.
//
// Identity lookups use private extended properties
// (privateExtendedProperty=identity=<key>), so the agent never depends on
// titles to find its own records. Listing pages through results and expands
// recurring events into single instances. Calendars are configured by display
// name and resolved to ids once per process, with concurrent resolutions of the
// same name collapsed through singleflight.
package google
