// Package intake exposes the reconciliation engine over HTTP.
//
// Upstream parsers (email, platform webhooks) post normalized bookings here.
// Passes run one at a time behind a mutex, since the engine assumes a single
// writer per process.
//
// # Message ledger
//
// Requests may carry the id of the upstream message they were parsed from.
// Applied ids are stored in the processed_messages table and a redelivered
// message is answered with status "duplicate" without touching any calendar.
// Failed and dry-run requests are not recorded, so they can be retried.
//
// # HTTP Endpoints
//
//   - POST /bookings : sync a booking
//   - PUT /bookings : update a booking (sweep, then sync)
//   - POST /bookings/cancel : cancel by key, or by source and external id
//   - GET /blocks : preview the days a booking would block
package intake
