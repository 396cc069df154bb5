package blockrange

import (
	"database/sql/driver"
	"strconv"
	"strings"
)

// BlockNumber is the logical-time coordinate of the store: a monotonically
// increasing 32-bit integer assigned by the chain the store follows.
type BlockNumber int32

const (
	// BlockNumberMax is the top of the block-number domain. It is reserved
	// as a sentinel: a query at BlockNumberMax means "ignore temporal
	// filtering", and an unbounded upper range end compares as if it were
	// this value. No real block ever reaches it.
	BlockNumberMax BlockNumber = 2147483647

	// BlockUnversioned is the reserved lower bound for entities that are
	// not subject to temporal versioning. Such rows are updated in place
	// and are considered present at every block. Using -1 instead of 0
	// makes them easy to spot when debugging.
	BlockUnversioned BlockNumber = -1
)

// BlockRangeColumn is the name of the column in which the validity range
// is stored. Part of the schema contract; existing tables and indexes
// assume it.
const BlockRangeColumn = "block_range"

// BlockRangeCurrent is the SQL test for a current entity version. A
// current version has an unbounded upper end, but `upper_inf(block_range)`
// is slow and cannot use the exclusion index on entity tables, so we test
// whether the sentinel is in the range instead.
const BlockRangeCurrent = "block_range @> 2147483647"

// BoundKind distinguishes the three forms a range bound can take.
type BoundKind int

const (
	// Included means the bound's block is inside the range.
	Included BoundKind = iota
	// Excluded means the bound's block is outside the range.
	Excluded
	// Unbounded means the range extends without limit on this side.
	Unbounded
)

// Bound is one end of a BlockRange. Block is meaningful only when Kind is
// Included or Excluded.
type Bound struct {
	Kind  BoundKind
	Block BlockNumber
}

// IncludedBound returns a bound that includes block.
func IncludedBound(block BlockNumber) Bound {
	return Bound{Kind: Included, Block: block}
}

// ExcludedBound returns a bound that excludes block.
func ExcludedBound(block BlockNumber) Bound {
	return Bound{Kind: Excluded, Block: block}
}

// UnboundedBound returns an open-ended bound.
func UnboundedBound() Bound {
	return Bound{Kind: Unbounded}
}

// BlockRange is the range of blocks for which an entity version is valid,
// as a pair of bounds. Values are immutable once constructed; the write
// path closes a version by writing the next one, not by mutating this.
//
// All construction paths in this repository produce an inclusive lower
// bound and an exclusive or unbounded upper bound. The type nevertheless
// represents every bound combination so that persisted ranges round-trip
// exactly. It does not enforce lower <= upper; callers never construct a
// violating range.
type BlockRange struct {
	Lower Bound
	Upper Bound
}

// From returns the range [start, ∞): valid from start onward, with no
// known end. This is the form every new entity version is written with.
func From(start BlockNumber) BlockRange {
	return BlockRange{
		Lower: IncludedBound(start),
		Upper: UnboundedBound(),
	}
}

// Unversioned returns the marker range [-1, ∞) used for entities outside
// temporal versioning.
func Unversioned() BlockRange {
	return From(BlockUnversioned)
}

// Contains reports whether block falls inside the range. It is the
// in-memory equivalent of the Postgres `@>` operator and is used by tests
// and the scenario harness to cross-check compiled predicates.
func (r BlockRange) Contains(block BlockNumber) bool {
	switch r.Lower.Kind {
	case Included:
		if block < r.Lower.Block {
			return false
		}
	case Excluded:
		if block <= r.Lower.Block {
			return false
		}
	}
	switch r.Upper.Kind {
	case Included:
		if block > r.Upper.Block {
			return false
		}
	case Excluded:
		if block >= r.Upper.Block {
			return false
		}
	}
	return true
}

// String returns the Postgres range literal for r, preserving bound kinds
// exactly: `[` / `(` for an included / excluded lower bound, `]` / `)`
// for the upper, and an empty position for an unbounded end. Examples:
// "[1000,)", "[-1,)", "[5,9)".
func (r BlockRange) String() string {
	var b strings.Builder
	switch r.Lower.Kind {
	case Included:
		b.WriteByte('[')
		b.WriteString(strconv.FormatInt(int64(r.Lower.Block), 10))
	case Excluded:
		b.WriteByte('(')
		b.WriteString(strconv.FormatInt(int64(r.Lower.Block), 10))
	case Unbounded:
		b.WriteByte('(')
	}
	b.WriteByte(',')
	switch r.Upper.Kind {
	case Included:
		b.WriteString(strconv.FormatInt(int64(r.Upper.Block), 10))
		b.WriteByte(']')
	case Excluded:
		b.WriteString(strconv.FormatInt(int64(r.Upper.Block), 10))
		b.WriteByte(')')
	case Unbounded:
		b.WriteByte(')')
	}
	return b.String()
}

// Value implements driver.Valuer so a BlockRange can be bound directly
// into a query. The value is the range literal; bind sites cast it with
// `::int4range` so Postgres parses it as the native range type.
func (r BlockRange) Value() (driver.Value, error) {
	return r.String(), nil
}
