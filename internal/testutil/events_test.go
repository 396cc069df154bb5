package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventAt_Deterministic(t *testing.T) {
	a := EventAt("deploy-1", 42)
	b := EventAt("deploy-1", 42)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, uint64(42), a.BlockPtr.Number)
	assert.Equal(t, "deploy-1", a.Deployment)
	assert.NotEmpty(t, a.BlockPtr.Hash)
}

func TestEventAt_DistinctCoordinatesDistinctIDs(t *testing.T) {
	assert.NotEqual(t, EventAt("deploy-1", 42).ID, EventAt("deploy-1", 43).ID)
	assert.NotEqual(t, EventAt("deploy-1", 42).ID, EventAt("deploy-2", 42).ID)
}

func TestNextEvent_FollowsClock(t *testing.T) {
	clock := NewBlockClock(10)

	ev := clock.NextEvent("deploy-1")
	require.Equal(t, uint64(11), ev.BlockPtr.Number)
	assert.Equal(t, EventAt("deploy-1", 11).ID, ev.ID)
}
