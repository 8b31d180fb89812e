package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/yql/internal/compiler"
)

func TestValidateValidQueries(t *testing.T) {
	output, err := execute(t, NewValidateCommand, "text", queriesDir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ All 3 query(ies) valid")
}

func TestValidateValidQueriesJSON(t *testing.T) {
	output, err := execute(t, NewValidateCommand, "json", queriesDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Queries)
	assert.Empty(t, resp.Data.Errors)
}

func TestValidateInvalidQuery(t *testing.T) {
	output, err := execute(t, NewValidateCommand, "text", invalidDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")

	assert.Contains(t, output, "✗ Validation failed")
	assert.Contains(t, output, compiler.ErrInvalidQuery+": spaced: select.table: ")
	assert.Contains(t, output, `invalid table name "my table"`)
}

func TestValidateInvalidQueryJSON(t *testing.T) {
	output, err := execute(t, NewValidateCommand, "json", invalidDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrInvalidQuery, resp.Error.Code)

	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Queries)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, "spaced", resp.Data.Errors[0].Query)
	assert.Equal(t, "select.table", resp.Data.Errors[0].Path)
}

func TestValidateCompileError(t *testing.T) {
	output, err := execute(t, NewValidateCommand, "json", brokenDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Len(t, resp.Data.Errors, 1)

	verr := resp.Data.Errors[0]
	assert.Equal(t, "odd", verr.Query)
	assert.Equal(t, compiler.ErrUnknownOperator, verr.Code)
	assert.Contains(t, verr.Message, `unknown operator "~"`)
	assert.Positive(t, verr.Line)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	output, err := execute(t, NewValidateCommand, "text", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, output, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := execute(t, NewValidateCommand, "text", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestValidateQueriesDir(t *testing.T) {
	errs, err := ValidateQueriesDir(queriesDir)
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = ValidateQueriesDir(invalidDir)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "[E110] spaced: select.table: invalid table name \"my table\"", errs[0].Error())

	_, err = ValidateQueriesDir("/nonexistent")
	require.Error(t, err)
}
