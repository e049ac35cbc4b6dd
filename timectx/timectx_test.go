package timectx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/loan-engine/timectx"
)

func TestOverrideAndClear(t *testing.T) {
	// GIVEN: a context overridden to a fixed instant
	// WHEN: Now is called, then Clear is called
	// THEN: Now reports the fixed instant, then reports real time again
	ctx := timectx.New(time.UTC)
	fixed := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	ctx.Override(timectx.FixedTimeSource{At: fixed})
	assert.Equal(t, fixed, ctx.Now())

	ctx.Clear()
	assert.WithinDuration(t, time.Now(), ctx.Now(), time.Second)
}

func TestEnsureAware_AttachesDefaultZoneWithoutConverting(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	ctx := timectx.New(loc)
	naive := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

	aware := ctx.EnsureAware(naive)

	assert.Equal(t, loc, aware.Location())
	assert.Equal(t, 9, aware.Hour())
	assert.Equal(t, 30, aware.Minute())
}

func TestEnsureAware_PassesThroughAlreadyAwareTimes(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	other, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	ctx := timectx.New(loc)
	aware := time.Date(2026, time.March, 10, 9, 30, 0, 0, other)

	result := ctx.EnsureAware(aware)

	assert.Equal(t, other, result.Location())
}
