package querypg

import (
	"github.com/roach88/asof/internal/blockrange"
)

// ContainsClause generates the WHERE fragment that checks whether Block
// is in the validity range of an entity version.
//
// Prefix identifies whose range column to test and is emitted verbatim
// before the column identifier; pass "c." for a table aliased as c, or
// "" for an unqualified reference. Prefix is caller-controlled text, not
// user input.
type ContainsClause struct {
	Config Config
	Prefix string
	Block  blockrange.BlockNumber
}

// NewContainsClause creates a ContainsClause.
func NewContainsClause(cfg Config, prefix string, block blockrange.BlockNumber) ContainsClause {
	return ContainsClause{Config: cfg, Prefix: prefix, Block: block}
}

// AppendTo emits
//
//	<prefix>"block_range" @> $n
//	  and coalesce(upper(<prefix>"block_range"), 2147483647) > $n
//	  and lower(<prefix>"block_range") <= $n
//
// The containment test alone is correct and sufficient; the two scalar
// comparisons are implied by it and exist only so the BRIN index over the
// raw bounds gains selectivity.
//
// The scalar pair is omitted when Block is the sentinel: at exactly
// BlockNumberMax the comparisons would be wrong (an open upper end only
// clears the `>` test through the coalesce), and sentinel queries are
// metadata lookups where block ranges don't matter anyway. It is also
// omitted when Config.DisableBRINRange is set.
//
// Because the emitted shape varies with Block and Config, the query is
// marked uncacheable.
func (c ContainsClause) AppendTo(q *Query) {
	q.MarkUncacheable()

	q.PushSQL(c.Prefix)
	q.PushIdent(blockrange.BlockRangeColumn)
	q.PushSQL(" @> ")
	q.PushParam(c.Block)

	if c.Config.DisableBRINRange || c.Block >= blockrange.BlockNumberMax {
		return
	}

	q.PushSQL(" and coalesce(upper(")
	q.PushSQL(c.Prefix)
	q.PushIdent(blockrange.BlockRangeColumn)
	q.PushSQL("), 2147483647) > ")
	q.PushParam(c.Block)
	q.PushSQL(" and lower(")
	q.PushSQL(c.Prefix)
	q.PushIdent(blockrange.BlockRangeColumn)
	q.PushSQL(") <= ")
	q.PushParam(c.Block)
}
