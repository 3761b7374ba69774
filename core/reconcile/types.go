package reconcile

import (
	"time"

	"calendar-agent/core/calendar"
)

// ActionType represents the type of store mutation.
type ActionType string

const (
	// ActionInsert creates a new record.
	ActionInsert ActionType = "insert"
	// ActionAdopt patches a pre-existing manual record and stamps it with an identity.
	ActionAdopt ActionType = "adopt"
	// ActionPatch updates a record the agent already owns.
	ActionPatch ActionType = "patch"
	// ActionDelete removes a record.
	ActionDelete ActionType = "delete"
	// ActionNoop records a decision that requires no write.
	ActionNoop ActionType = "noop"
)

// Action represents a planned store operation.
type Action struct {
	// Type specifies the operation to perform.
	Type ActionType `json:"type"`

	// Calendar is the calendar the record lives on.
	Calendar string `json:"calendar"`

	// RecordID is the existing record for adopt, patch, delete and noop.
	RecordID string `json:"record_id,omitempty"`

	// Key is the identity key the action serves.
	Key string `json:"key"`

	// Record is the record to create for insert actions.
	Record *calendar.Record `json:"record,omitempty"`

	// Patch is the partial update for adopt and patch actions.
	Patch *calendar.Patch `json:"patch,omitempty"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// Plan contains the decisions of one pass, computed from store reads only.
type Plan struct {
	// Actions contains planned operations in execution order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`

	// BestEffort makes apply continue past failed actions. Sweeps set it.
	BestEffort bool `json:"best_effort"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	Inserts   int `json:"inserts"`
	Adoptions int `json:"adoptions"`
	Patches   int `json:"patches"`
	Deletes   int `json:"deletes"`
	Noops     int `json:"noops"`
}

// Writes returns the number of actions that mutate the store.
func (s PlanSummary) Writes() int {
	return s.Inserts + s.Adoptions + s.Patches + s.Deletes
}

func (p *Plan) add(a Action) {
	p.Actions = append(p.Actions, a)
	switch a.Type {
	case ActionInsert:
		p.Summary.Inserts++
	case ActionAdopt:
		p.Summary.Adoptions++
	case ActionPatch:
		p.Summary.Patches++
	case ActionDelete:
		p.Summary.Deletes++
	case ActionNoop:
		p.Summary.Noops++
	}
}

// HasDeletes reports whether applying the plan removes records.
func (p *Plan) HasDeletes() bool {
	return p.Summary.Deletes > 0
}

// Options controls whether a plan is executed.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the caller accepted the plan.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}

// Apply is the option set that executes immediately.
var Apply = Options{Confirmed: true}

// Applied counts the outcome of executing a plan.
type Applied struct {
	Inserted int `json:"inserted"`
	Adopted  int `json:"adopted"`
	Patched  int `json:"patched"`
	Deleted  int `json:"deleted"`
	Failed   int `json:"failed"`
}

// Executed returns the number of successful writes.
func (a Applied) Executed() int {
	return a.Inserted + a.Adopted + a.Patched + a.Deleted
}

// SweepResult reports a cancellation sweep.
type SweepResult struct {
	Deleted int `json:"deleted"`
	Patched int `json:"patched"`
	Failed  int `json:"failed"`
}

// Target selects the records a cancellation removes.
type Target struct {
	// Key is an exact booking or record key.
	Key string
	// Prefix matches every key starting with it, for flows where the exact
	// key is no longer known.
	Prefix string
	// Start and End restrict the sweep; zero values use the engine lookback.
	Start time.Time
	End   time.Time
}

// UpdateResult reports an update: the sweep of prior records and the
// re-synchronisation at the new time.
type UpdateResult struct {
	Sweep    SweepResult `json:"sweep"`
	SyncPlan *Plan       `json:"sync_plan"`
	Synced   Applied     `json:"synced"`
}
