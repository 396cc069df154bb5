package querypg

import (
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/asof/internal/blockrange"
)

func compileContains(cfg Config, prefix string, block blockrange.BlockNumber) *Query {
	q := New()
	NewContainsClause(cfg, prefix, block).AppendTo(q)
	return q
}

func TestContains_FullClause(t *testing.T) {
	q := compileContains(Config{}, "c.", 100)

	assert.Equal(t,
		`c."block_range" @> $1`+
			` and coalesce(upper(c."block_range"), 2147483647) > $2`+
			` and lower(c."block_range") <= $3`,
		q.SQL())
	assert.Equal(t, []any{
		blockrange.BlockNumber(100),
		blockrange.BlockNumber(100),
		blockrange.BlockNumber(100),
	}, q.Params())
}

func TestContains_SentinelOmitsBRINClause(t *testing.T) {
	// At exactly BlockNumberMax the scalar comparisons would be wrong, so
	// only the containment test is emitted, toggle or no toggle.
	for _, cfg := range []Config{{}, {DisableBRINRange: true}} {
		q := compileContains(cfg, "c.", blockrange.BlockNumberMax)

		assert.Equal(t, `c."block_range" @> $1`, q.SQL())
		assert.Equal(t, []any{blockrange.BlockNumberMax}, q.Params())
	}
}

func TestContains_SentinelBoundary(t *testing.T) {
	// BlockNumberMax-1 is the largest real block; it must get the full
	// clause exactly like any other block below the sentinel.
	q := compileContains(Config{}, "c.", blockrange.BlockNumberMax-1)

	require.Contains(t, q.SQL(), "coalesce(upper(")
	require.Contains(t, q.SQL(), "lower(")
	assert.Len(t, q.Params(), 3)
}

func TestContains_DisabledByConfig(t *testing.T) {
	q := compileContains(Config{DisableBRINRange: true}, "c.", 100)

	assert.Equal(t, `c."block_range" @> $1`, q.SQL())
	assert.Equal(t, []any{blockrange.BlockNumber(100)}, q.Params())
}

func TestContains_DisabledByEnv(t *testing.T) {
	// Presence disables, value is irrelevant - the empty string counts.
	t.Setenv(DisableBRINEnv, "")

	q := compileContains(ConfigFromEnv(), "c.", 100)

	assert.Equal(t, `c."block_range" @> $1`, q.SQL())
}

func TestConfigFromEnv_Unset(t *testing.T) {
	// t.Setenv registers the var for restoration on test exit; unsetting
	// it afterwards lets us observe the absent-variable path.
	t.Setenv(DisableBRINEnv, "x")
	require.NoError(t, os.Unsetenv(DisableBRINEnv))

	assert.False(t, ConfigFromEnv().DisableBRINRange)
}

func TestContains_Uncacheable(t *testing.T) {
	// The clause shape varies with block and config, so a cached plan for
	// one input must never serve another.
	q := New()
	assert.True(t, q.Cacheable())

	NewContainsClause(Config{}, "c.", 100).AppendTo(q)
	assert.False(t, q.Cacheable())
}

func TestContains_NoInterpolation(t *testing.T) {
	q := compileContains(Config{}, "c.", 123456)

	assert.NotContains(t, q.SQL(), "123456",
		"block number must be bound, never interpolated")
}

func TestContains_Golden(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    Config
		prefix string
		block  blockrange.BlockNumber
	}{
		{"contains-default", Config{}, "c.", 100},
		{"contains-sentinel", Config{}, "c.", blockrange.BlockNumberMax},
		{"contains-disabled", Config{DisableBRINRange: true}, "c.", 100},
		{"contains-no-prefix", Config{}, "", 0},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := compileContains(tc.cfg, tc.prefix, tc.block)
			out := fmt.Sprintf("sql: %s\nparams: %v\ncacheable: %v\n",
				q.SQL(), q.Params(), q.Cacheable())
			g.Assert(t, tc.name, []byte(out))
		})
	}
}

// TestContains_BRINClauseIsRedundant checks the property the optimization
// relies on: for every range the write path produces and every real
// target block, conjoining the scalar-bound pair to the containment test
// never changes the predicate's truth value.
func TestContains_BRINClauseIsRedundant(t *testing.T) {
	ranges := []blockrange.BlockRange{
		blockrange.From(0),
		blockrange.From(5),
		blockrange.From(1000),
		blockrange.Unversioned(),
		{Lower: blockrange.IncludedBound(5), Upper: blockrange.ExcludedBound(9)},
		{Lower: blockrange.IncludedBound(0), Upper: blockrange.ExcludedBound(1)},
		{Lower: blockrange.IncludedBound(7), Upper: blockrange.ExcludedBound(7)},
	}
	targets := []blockrange.BlockNumber{
		0, 1, 4, 5, 6, 8, 9, 10, 999, 1000, 1001,
		blockrange.BlockNumberMax - 2,
		blockrange.BlockNumberMax - 1,
	}

	for _, r := range ranges {
		for _, b := range targets {
			primary := r.Contains(b)
			full := primary && evalBRINPair(r, b)
			assert.Equal(t, primary, full,
				"range %s target %d: redundant clause changed the result", r, b)
		}
	}
}

// evalBRINPair mirrors in memory what Postgres evaluates for
//
//	coalesce(upper(block_range), 2147483647) > b and lower(block_range) <= b
//
// for the canonical [lower, upper) ranges the write path persists.
func evalBRINPair(r blockrange.BlockRange, b blockrange.BlockNumber) bool {
	upper := blockrange.BlockNumberMax
	if r.Upper.Kind != blockrange.Unbounded {
		upper = r.Upper.Block
	}
	return upper > b && r.Lower.Block <= b
}
