package history

import (
	"errors"
	"fmt"

	"github.com/roach88/asof/internal/blockrange"
)

// ResolveError reports a contract violation while resolving a block
// coordinate from a history context. Both codes mark states that are
// structurally impossible given correct use of the store, so callers
// convert them into hard operation aborts, never retries.
type ResolveError struct {
	// Code identifies the violation category.
	Code ResolveErrorCode

	// Message is a human-readable description.
	Message string

	// Block is the offending coordinate (for overflow errors).
	Block uint64

	// EventID identifies the history event, when one was present.
	EventID string
}

// ResolveErrorCode categorizes resolution failures.
type ResolveErrorCode string

const (
	// ErrCodeDomainOverflow indicates a provenance coordinate above the
	// 32-bit temporal domain.
	ErrCodeDomainOverflow ResolveErrorCode = "DOMAIN_OVERFLOW"

	// ErrCodeMissingProvenance indicates a versioned operation attempted
	// without any history context.
	ErrCodeMissingProvenance ResolveErrorCode = "MISSING_PROVENANCE"
)

// Error implements the error interface. Overflow errors name the
// offending value so the abort diagnostic identifies it.
func (e *ResolveError) Error() string {
	if e.Code == ErrCodeDomainOverflow {
		return fmt.Sprintf("%s: block numbers bigger than %d are not supported, but received block number %d",
			e.Code, blockrange.BlockNumberMax, e.Block)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDomainOverflow returns true if the error is a domain overflow.
// Uses errors.As to handle wrapped errors.
func IsDomainOverflow(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeDomainOverflow
	}
	return false
}

// IsMissingProvenance returns true if the error is a missing-context
// violation. Uses errors.As to handle wrapped errors.
func IsMissingProvenance(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMissingProvenance
	}
	return false
}
