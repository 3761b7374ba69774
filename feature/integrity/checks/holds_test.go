package checks

import (
	"context"
	"testing"
	"time"

	"calendar-agent/core/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func managed() map[string]string {
	return map[string]string{calendar.PropManagedBy: calendar.ManagedByValue}
}

func TestCheckHolds(t *testing.T) {
	ctx := context.Background()
	store := calendar.NewMemoryStore(time.UTC)
	dec1 := calendar.Date{Year: 2025, Month: time.December, Day: 1}
	dec2 := calendar.Date{Year: 2025, Month: time.December, Day: 2}

	for _, r := range []calendar.Record{
		{ID: "a", Summary: "EVENT", AllDay: true, Date: dec1, Properties: managed()},
		{ID: "b", Summary: "PHOTOSHOOT", AllDay: true, Date: dec1, Properties: managed()},
		{ID: "c", Summary: "EVENT", AllDay: true, Date: dec2, Properties: managed()},
		// Manual holds are never counted.
		{ID: "d", Summary: "OWNER STAY", AllDay: true, Date: dec2},
	} {
		_, err := store.Insert(ctx, "blocks", r)
		require.NoError(t, err)
	}

	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	report, err := CheckHolds(ctx, store, "blocks", start, start.AddDate(0, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, "error", report.Status)
	assert.Equal(t, 2, report.Days)
	assert.Equal(t, map[string][]string{"2025-12-01": {"a", "b"}}, report.Duplicates)
}

func TestCheckHolds_Clean(t *testing.T) {
	store := calendar.NewMemoryStore(time.UTC)
	start := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	report, err := CheckHolds(context.Background(), store, "blocks", start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, "ok", report.Status)
	assert.Empty(t, report.Duplicates)
}
