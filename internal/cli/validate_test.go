package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Passes(t *testing.T) {
	req, resp := generateFiles(t, "TC_002_INACTIVE")
	opts := testRootOptions(t, "text")

	out, err := execute(NewValidateCommand(opts), resp, "--scenario", "inactive")
	require.NoError(t, err)
	assert.Contains(t, out, "271 transaction")
	assert.Contains(t, out, "✓ Valid 271 for scenario inactive")

	out, err = execute(NewValidateCommand(opts), req, "--label", "TC_002_INACTIVE")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Valid 270 for scenario inactive")
}

func TestValidate_WrongScenarioFails(t *testing.T) {
	_, resp := generateFiles(t, "TC_002_INACTIVE")

	out, err := execute(NewValidateCommand(testRootOptions(t, "text")), resp, "--scenario", "active")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "for scenario active")
}

func TestValidate_JSONFailure(t *testing.T) {
	_, resp := generateFiles(t, "TC_002_INACTIVE")

	out, err := execute(NewValidateCommand(testRootOptions(t, "json")), resp, "--scenario", "active")
	require.Error(t, err)

	got := decodeResponse(t, out)
	assert.Equal(t, "error", got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, ErrCodeValidation, got.Error.Code)
}

func TestValidate_RequiresScenario(t *testing.T) {
	_, resp := generateFiles(t, "TC_001_ACTIVE")

	_, err := execute(NewValidateCommand(testRootOptions(t, "text")), resp)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_UnknownScenario(t *testing.T) {
	_, resp := generateFiles(t, "TC_001_ACTIVE")

	_, err := execute(NewValidateCommand(testRootOptions(t, "text")), resp, "--scenario", "activ")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.x12")

	out, err := execute(NewValidateCommand(testRootOptions(t, "text")), missing, "--scenario", "active")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeReadFailed)
}
