// Package history resolves the block coordinate a versioned write runs
// at from the history context the event subsystem hands us.
//
// The context's block pointer stores its number as a uint64 because
// source provenance systems can exceed 32 bits, while this store's
// temporal domain cannot. Resolution narrows the value or fails; it never
// truncates, because a silently wrapped coordinate would corrupt the
// temporal ordering of every range written under it.
package history

import (
	"github.com/google/uuid"

	"github.com/roach88/asof/internal/blockrange"
)

// BlockPtr points at a block in the source chain.
type BlockPtr struct {
	// Number is the block coordinate as recorded by the provenance
	// system. May exceed the storage domain's 32-bit ceiling.
	Number uint64

	// Hash is the block's hash, hex encoded. Informational here; only
	// Number participates in resolution.
	Hash string
}

// Event is the history context for one versioned operation: which
// deployment is writing, and at which block.
//
// Events are produced by the event/history subsystem; this package only
// consumes them.
type Event struct {
	// ID identifies the event for diagnostics.
	ID uuid.UUID

	// Deployment identifies the deployment the write belongs to.
	Deployment string

	// BlockPtr carries the block coordinate the operation runs at.
	BlockPtr BlockPtr
}

// BlockNumber returns the block coordinate contained in the history
// event.
//
// A nil event means versioned-write logic was invoked on a path that was
// never supposed to record history; that is a programming-contract
// violation, reported as a MissingProvenance ResolveError. A coordinate
// at or above 2^31-1 cannot be represented in the temporal domain and is
// reported as a DomainOverflow ResolveError. Neither error is ever
// recoverable in-process: callers abort the surrounding operation rather
// than proceed with a degraded coordinate.
func BlockNumber(ev *Event) (blockrange.BlockNumber, error) {
	if ev == nil {
		return 0, &ResolveError{
			Code:    ErrCodeMissingProvenance,
			Message: "operation requires a block coordinate but carries no history event",
		}
	}

	number := ev.BlockPtr.Number
	if number >= uint64(blockrange.BlockNumberMax) {
		return 0, &ResolveError{
			Code:    ErrCodeDomainOverflow,
			Message: "block number exceeds the representable temporal domain",
			Block:   number,
			EventID: ev.ID.String(),
		}
	}

	return blockrange.BlockNumber(number), nil
}
