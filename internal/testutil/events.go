package testutil

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/asof/internal/history"
)

// EventAt returns a provenance event for deployment at block. The event
// ID is derived from both via UUIDv5, so the same (deployment, block)
// pair always yields the same event and fixtures stay byte-identical
// across runs.
func EventAt(deployment string, block uint64) *history.Event {
	return &history.Event{
		ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", deployment, block))),
		Deployment: deployment,
		BlockPtr: history.BlockPtr{
			Number: block,
			Hash:   fmt.Sprintf("0x%016x", block),
		},
	}
}

// NextEvent advances the clock and returns the event at the new
// coordinate.
func (c *BlockClock) NextEvent(deployment string) *history.Event {
	return EventAt(deployment, c.Next())
}
