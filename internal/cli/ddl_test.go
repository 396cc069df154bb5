package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDDL_PrintsGeneratedTables(t *testing.T) {
	out, _, err := executeCommand(t, "ddl", "testdata/specs/entities.cue")
	require.NoError(t, err)

	assert.Contains(t, out, `create table "account"`)
	assert.Contains(t, out, `exclude using gist (id with =, block_range with &&)`)
	assert.Contains(t, out, `create index "brin_account"`)

	// Manifest is unversioned: unique id, default marker range, no BRIN.
	assert.Contains(t, out, `create table "manifest"`)
	assert.Contains(t, out, `default '[-1,)'::int4range`)
	assert.NotContains(t, out, `"brin_manifest"`)
}

func TestDDL_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.sql")

	out, _, err := executeCommand(t, "ddl", "testdata/specs/entities.cue", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote DDL for 2 entity spec(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `create table "account"`)
}

func TestDDL_InvalidSpecs(t *testing.T) {
	_, _, err := executeCommand(t, "ddl", "testdata/invalid/bad-type.cue")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
