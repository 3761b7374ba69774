package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE ledger (id INTEGER PRIMARY KEY, message_id TEXT, outcome TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "ledger")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["message_id"])
	assert.Equal(t, "text", colMap["outcome"])

	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE ledger (id INTEGER PRIMARY KEY, message_id TEXT)").Error)

	missing, err := MissingColumns(db, "ledger", []string{"id", "MESSAGE_ID", "outcome"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"outcome"}, missing)
}
