package cmd

import (
	"testing"
	"time"

	"calendar-agent/core/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDays(t *testing.T) {
	days, err := parseDays([]string{"2025-12-25", " 2025-12-24 ", "2025-12-25"})
	require.NoError(t, err)
	assert.Equal(t, []calendar.Date{
		{Year: 2025, Month: time.December, Day: 25},
		{Year: 2025, Month: time.December, Day: 24},
	}, days)

	_, err = parseDays([]string{"2025-12-24", "12/25"})
	assert.Error(t, err)
}

func TestBlockCommandRegistered(t *testing.T) {
	c, _, err := RootCmd.Find([]string{"block"})
	require.NoError(t, err)
	assert.Equal(t, blockCmd, c)
	assert.NotNil(t, c.Flags().Lookup("label"))
	assert.NotNil(t, c.Flags().Lookup("dry-run"))
	assert.Error(t, c.Args(c, nil))
}
