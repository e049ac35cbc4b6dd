package dategen_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/loan-engine/dategen"
)

func TestMonthly_ClampsShortMonths(t *testing.T) {
	// GIVEN: an anchor on Jan 31
	// WHEN: generating monthly dates
	// THEN: February clamps to its last day, then March returns to the 31st
	anchor := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	dates := dategen.Monthly{Anchor: anchor}.Generate(3)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), dates[1])
	assert.Equal(t, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), dates[2])
}

func TestWeeklyAndBiWeekly(t *testing.T) {
	anchor := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	weekly := dategen.Weekly{Anchor: anchor}.Generate(2)
	assert.Equal(t, anchor.AddDate(0, 0, 7), weekly[0])
	assert.Equal(t, anchor.AddDate(0, 0, 14), weekly[1])

	biweekly := dategen.BiWeekly{Anchor: anchor}.Generate(2)
	assert.Equal(t, anchor.AddDate(0, 0, 14), biweekly[0])
	assert.Equal(t, anchor.AddDate(0, 0, 28), biweekly[1])
}

func TestDaily(t *testing.T) {
	anchor := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	dates := dategen.Daily{Anchor: anchor}.Generate(3)
	assert.Equal(t, anchor.AddDate(0, 0, 1), dates[0])
	assert.Equal(t, anchor.AddDate(0, 0, 3), dates[2])
}
