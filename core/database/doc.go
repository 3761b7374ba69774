// Package database opens GORM connections for the SQL-backed calendar store
// and the intake ledger.
//
// Connect supports MySQL for shared deployments and SQLite for single-host
// installs and tests (":memory:"). The inspector helpers read table columns so
// callers can verify a migrated schema before writing to it.
//
//	db, err := database.Connect(cfg.Database)
//	missing, err := database.MissingColumns(db, "calendar_events", []string{"identity"})
package database
