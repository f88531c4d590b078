package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDayUsesLocalMidnight(t *testing.T) {
	// UTC+9: 01:30 local on the 12th is still the 11th in UTC, so a
	// UTC-epoch truncation would land a day early.
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	at := time.Date(2026, time.March, 12, 1, 30, 0, 0, tokyo)

	got := time.Unix(startOfDay(at), 0).In(tokyo)

	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 12, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())

	assert.NotEqual(t, at.Truncate(24*time.Hour).Unix(), startOfDay(at))
}

func TestStartOfDayIdempotentAtMidnight(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	midnight := time.Date(2026, time.July, 4, 0, 0, 0, 0, zone)

	assert.Equal(t, midnight.Unix(), startOfDay(midnight))
	assert.Equal(t, midnight.Unix(), startOfDay(midnight.Add(23*time.Hour+59*time.Minute)))
}
