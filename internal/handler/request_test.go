package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	got, err := parseTimestamp("2026-03-01T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), got.UTC())

	// offset form
	got, err = parseTimestamp("2026-03-01T09:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC), got.UTC())

	// naive form without zone, as sent by simple clients
	got, err = parseTimestamp("2026-03-01T09:30:00")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())

	_, err = parseTimestamp("01/03/2026")
	assert.Error(t, err)

	_, err = parseTimestamp("")
	assert.Error(t, err)
}
