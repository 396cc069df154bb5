package harness

import (
	"fmt"
	"reflect"

	"github.com/roach88/asof/internal/blockrange"
)

// version is one row of the in-memory entity table: a validity range and
// the entity state it holds.
type version struct {
	rng    blockrange.BlockRange
	values map[string]any
}

// TraceEvent records one observable step of a scenario run. The trace is
// what golden files compare against, so the field set and order are part
// of the fixture format.
type TraceEvent struct {
	Type   string                 `json:"type"`
	Block  blockrange.BlockNumber `json:"block"`
	ID     string                 `json:"id"`
	Range  string                 `json:"range,omitempty"`
	Values map[string]any         `json:"values,omitempty"`
	Absent bool                   `json:"absent,omitempty"`
}

// Result is the outcome of executing a scenario.
type Result struct {
	Scenario *Scenario
	Trace    []TraceEvent
}

// Run executes a scenario against a fresh in-memory table and returns the
// trace. It fails if a query outcome differs from the scenario's
// expectation, or if conjoining the redundant BRIN-helper comparisons
// would have changed a query's outcome.
func Run(scenario *Scenario) (*Result, error) {
	// Per-entity version lists, in write order. Write order is also range
	// order since blocks are non-decreasing.
	table := make(map[string][]version)

	result := &Result{Scenario: scenario}

	for i, w := range scenario.Writes {
		clamped, err := clampCurrent(table, w.ID, w.Block)
		if err != nil {
			return nil, fmt.Errorf("writes[%d]: %w", i, err)
		}

		if w.Delete {
			if clamped == nil {
				return nil, fmt.Errorf("writes[%d]: delete of %q but no current version", i, w.ID)
			}
			result.Trace = append(result.Trace, TraceEvent{
				Type:  "delete",
				Block: w.Block,
				ID:    w.ID,
				Range: clamped.String(),
			})
			continue
		}

		next := version{rng: blockrange.From(w.Block), values: w.Values}
		table[w.ID] = append(table[w.ID], next)
		result.Trace = append(result.Trace, TraceEvent{
			Type:   "write",
			Block:  w.Block,
			ID:     w.ID,
			Range:  next.rng.String(),
			Values: w.Values,
		})
	}

	for i, q := range scenario.Queries {
		match, err := query(table, q.ID, q.At)
		if err != nil {
			return nil, fmt.Errorf("queries[%d]: %w", i, err)
		}

		if match == nil {
			if !q.Absent {
				return nil, fmt.Errorf("queries[%d]: expected %q at block %d, found nothing", i, q.ID, q.At)
			}
			result.Trace = append(result.Trace, TraceEvent{
				Type:   "query",
				Block:  q.At,
				ID:     q.ID,
				Absent: true,
			})
			continue
		}

		if q.Absent {
			return nil, fmt.Errorf("queries[%d]: expected %q absent at block %d, found version %s",
				i, q.ID, q.At, match.rng)
		}
		for key, want := range q.Expect {
			got, ok := match.values[key]
			if !ok {
				return nil, fmt.Errorf("queries[%d]: field %q missing from version %s", i, key, match.rng)
			}
			if !reflect.DeepEqual(got, want) {
				return nil, fmt.Errorf("queries[%d]: field %q = %v at block %d, want %v",
					i, key, got, q.At, want)
			}
		}

		result.Trace = append(result.Trace, TraceEvent{
			Type:   "query",
			Block:  q.At,
			ID:     q.ID,
			Range:  match.rng.String(),
			Values: match.values,
		})
	}

	return result, nil
}

// clampCurrent ends the validity of id's current version at block, if one
// exists, and returns the clamped range. Mirrors the store's
// supersede-on-write update.
func clampCurrent(table map[string][]version, id string, block blockrange.BlockNumber) (*blockrange.BlockRange, error) {
	versions := table[id]
	for i := range versions {
		v := &versions[i]
		if !v.rng.Contains(blockrange.BlockNumberMax) {
			continue
		}
		if v.rng.Lower.Kind == blockrange.Included && v.rng.Lower.Block > block {
			return nil, fmt.Errorf("current version %s starts after block %d", v.rng, block)
		}
		v.rng = blockrange.BlockRange{
			Lower: v.rng.Lower,
			Upper: blockrange.ExcludedBound(block),
		}
		return &v.rng, nil
	}
	return nil, nil
}

// query returns id's version valid at block, or nil. Every candidate is
// also evaluated with the BRIN-helper comparisons conjoined; a divergence
// means the helper clause is not redundant and the run fails.
func query(table map[string][]version, id string, block blockrange.BlockNumber) (*version, error) {
	for i := range table[id] {
		v := &table[id][i]
		contains := v.rng.Contains(block)

		if block < blockrange.BlockNumberMax {
			conjoined := contains && brinPair(v.rng, block)
			if conjoined != contains {
				return nil, fmt.Errorf("BRIN-helper comparisons changed the outcome for %s at block %d", v.rng, block)
			}
		}

		if contains {
			return v, nil
		}
	}
	return nil, nil
}

// brinPair evaluates `coalesce(upper(block_range), 2147483647) > $b and
// lower(block_range) <= $b` against an in-memory range, normalizing bound
// kinds the way Postgres canonicalizes discrete ranges.
func brinPair(r blockrange.BlockRange, block blockrange.BlockNumber) bool {
	upper := blockrange.BlockNumberMax
	switch r.Upper.Kind {
	case blockrange.Excluded:
		upper = r.Upper.Block
	case blockrange.Included:
		upper = r.Upper.Block + 1
	}
	if upper <= block {
		return false
	}

	switch r.Lower.Kind {
	case blockrange.Included:
		return r.Lower.Block <= block
	case blockrange.Excluded:
		return r.Lower.Block+1 <= block
	default:
		return true
	}
}
