// Package testutil provides deterministic helpers for tests: a block
// clock that hands out monotonically increasing chain coordinates, and
// event constructors with content-derived IDs so repeated runs produce
// identical fixtures.
package testutil

import "sync"

// BlockClock is a thread-safe monotonic source of chain block numbers
// for tests. It deals in the chain-side uint64 coordinate, before
// resolution into the store's 32-bit domain.
//
// Unlike real chain heads, BlockClock can be reset so the same scenario
// can run repeatedly with identical coordinates.
type BlockClock struct {
	mu    sync.Mutex
	block uint64
}

// NewBlockClock creates a clock positioned at start. The first call to
// Next() returns start+1.
func NewBlockClock(start uint64) *BlockClock {
	return &BlockClock{block: start}
}

// Next advances the clock by one block and returns the new coordinate.
func (c *BlockClock) Next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block++
	return c.block
}

// Current returns the clock's coordinate without advancing it.
func (c *BlockClock) Current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.block
}

// Advance moves the clock forward by n blocks and returns the new
// coordinate. Useful for scenarios with gaps between writes.
func (c *BlockClock) Advance(n uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block += n
	return c.block
}

// Reset moves the clock back to start.
func (c *BlockClock) Reset(start uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block = start
}
