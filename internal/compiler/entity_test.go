package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/asof/internal/ir"
)

func compileString(t *testing.T, src string) cue.Value {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return v
}

func TestCompileEntity_Basic(t *testing.T) {
	v := compileString(t, `
entity: Account: {
	versioned: true
	columns: {
		owner:   "text"
		balance: "numeric"
	}
}
`)

	spec, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Account")))
	require.NoError(t, err)

	assert.Equal(t, "Account", spec.Name)
	assert.True(t, spec.Versioned)
	// Columns come back sorted by name.
	require.Len(t, spec.Columns, 2)
	assert.Equal(t, ir.ColumnSpec{Name: "balance", Type: ir.ColumnNumeric}, spec.Columns[0])
	assert.Equal(t, ir.ColumnSpec{Name: "owner", Type: ir.ColumnText}, spec.Columns[1])
}

func TestCompileEntity_VersionedDefaultsTrue(t *testing.T) {
	v := compileString(t, `
entity: Account: {
	columns: owner: "text"
}
`)

	spec, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Account")))
	require.NoError(t, err)
	assert.True(t, spec.Versioned)
}

func TestCompileEntity_Unversioned(t *testing.T) {
	v := compileString(t, `
entity: Manifest: {
	versioned: false
	columns: specVersion: "text"
}
`)

	spec, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Manifest")))
	require.NoError(t, err)
	assert.False(t, spec.Versioned)
}

func TestCompileEntity_MissingColumns(t *testing.T) {
	v := compileString(t, `
entity: Account: {
	versioned: true
}
`)

	_, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Account")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}

func TestCompileEntity_UnsupportedColumnType(t *testing.T) {
	v := compileString(t, `
entity: Account: {
	columns: score: "float8"
}
`)

	_, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.Account")))
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "columns.score", ce.Field)
	assert.Contains(t, ce.Message, "float8")
}

func TestCompileEntities_SortedByName(t *testing.T) {
	v := compileString(t, `
entity: {
	Transfer: columns: amount: "numeric"
	Account:  columns: owner: "text"
}
`)

	specs, err := CompileEntities(v)
	require.NoError(t, err)

	require.Len(t, specs, 2)
	assert.Equal(t, "Account", specs[0].Name)
	assert.Equal(t, "Transfer", specs[1].Name)
}

func TestCompileEntities_NoEntities(t *testing.T) {
	v := compileString(t, `other: 1`)

	_, err := CompileEntities(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entity declarations")
}
