package compiler

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/asof/internal/ir"
)

func accountSpec() *ir.EntitySpec {
	return &ir.EntitySpec{
		Name:      "Account",
		Versioned: true,
		Columns: []ir.ColumnSpec{
			{Name: "balance", Type: ir.ColumnNumeric},
			{Name: "owner", Type: ir.ColumnText},
		},
	}
}

func manifestSpec() *ir.EntitySpec {
	return &ir.EntitySpec{
		Name:      "Manifest",
		Versioned: false,
		Columns: []ir.ColumnSpec{
			{Name: "specVersion", Type: ir.ColumnText},
		},
	}
}

func TestGenerateDDL_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("versioned", func(t *testing.T) {
		g.Assert(t, "ddl-account", []byte(GenerateDDL(accountSpec())))
	})

	t.Run("unversioned", func(t *testing.T) {
		g.Assert(t, "ddl-manifest", []byte(GenerateDDL(manifestSpec())))
	})
}

func TestGenerateDDL_VersionedHasBothIndexes(t *testing.T) {
	ddl := GenerateDDL(accountSpec())

	// The exclusion constraint backs the @> containment test; the BRIN
	// index is what the redundant scalar clause targets. The schema and
	// the compiled predicates embed the same sentinel.
	assert.Contains(t, ddl, "exclude using gist (id with =, block_range with &&)")
	assert.Contains(t, ddl, "using brin (lower(block_range), coalesce(upper(block_range), 2147483647), vid)")
}

func TestGenerateDDL_UnversionedMarkerDefault(t *testing.T) {
	ddl := GenerateDDL(manifestSpec())

	assert.Contains(t, ddl, `default '[-1,)'::int4range`)
	assert.Contains(t, ddl, `unique (id)`)
	assert.NotContains(t, ddl, "brin")
}

func TestGenerateAllDDL(t *testing.T) {
	out := GenerateAllDDL([]ir.EntitySpec{*accountSpec(), *manifestSpec()})

	assert.Contains(t, out, `create table "account"`)
	assert.Contains(t, out, `create table "manifest"`)
}
