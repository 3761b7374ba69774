// Package reconcile keeps the shared calendars consistent with bookings.
//
// Every operation is split in two explicit steps. Planning reads the store
// and decides, producing a Plan of Actions (insert, adopt, patch, delete,
// noop). Applying executes those actions. Nothing is written while planning,
// so a dry run prints exactly what a real run would do, and a conditional
// write layer can be slotted between the two steps later.
//
// # Operations
//
//   - ReconcileBuffer: place or re-time the buffer records of a booking,
//     adopting a manually created record with the same title, location and day.
//   - ReconcileBlock: merge a booking's label into the single all-day hold of
//     a day on the blocks calendar.
//   - Cancel: delete a booking's records by exact key or by prefix, unmerging
//     its labels from shared holds.
//   - Update: sweep a booking's prior records around its new time, then Sync.
//   - Sync: all of the above a booking needs.
//
// # Identity
//
// Records are found by the identity key stamped into their properties bag.
// Shared holds also list every contributing block key, so removing one
// booking's label never touches another booking's contribution.
//
// # Usage
//
//	engine := reconcile.NewEngine(store, rulesEngine, cfg, logger)
//	plan, err := engine.PlanSync(ctx, event)
//	applied, err := engine.ApplyPlan(ctx, plan, reconcile.Options{Confirmed: true})
//
// The engine assumes a single writer: callers serialize passes.
package reconcile
