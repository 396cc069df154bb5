package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidSpecs(t *testing.T) {
	out, _, err := executeCommand(t, "validate", "testdata/specs/entities.cue")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 entity spec(s) valid")
}

func TestValidate_JSONOutput(t *testing.T) {
	out, _, err := executeCommand(t, "--format", "json", "validate", "testdata/specs/entities.cue")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result ValidationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Valid)
	assert.Equal(t, []string{"Account", "Manifest"}, result.Entities)
}

func TestValidate_PathNotFound(t *testing.T) {
	_, _, err := executeCommand(t, "validate", "testdata/does-not-exist")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_InvalidColumnType(t *testing.T) {
	out, _, err := executeCommand(t, "validate", "testdata/invalid/bad-type.cue")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, err.Error(), ErrCodeInvalidColumn)
	assert.Contains(t, err.Error(), "float")
}

func TestValidate_Verbose(t *testing.T) {
	_, errOut, err := executeCommand(t, "--verbose", "validate", "testdata/specs/entities.cue")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Validated entity: Account")
}

func TestMapFieldToErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeEntityName, MapFieldToErrorCode("entity"))
	assert.Equal(t, ErrCodeNoColumns, MapFieldToErrorCode("columns"))
	assert.Equal(t, ErrCodeInvalidColumn, MapFieldToErrorCode("columns.balance"))
	assert.Equal(t, ErrCodeGeneric, MapFieldToErrorCode("something-else"))
}
