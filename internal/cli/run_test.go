package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Passes(t *testing.T) {
	out, err := execute(NewRunCommand(testRootOptions(t, "text")), "TC_001_ACTIVE")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ TC_001_ACTIVE (active)")
}

func TestRun_ShowPayload(t *testing.T) {
	out, err := execute(NewRunCommand(testRootOptions(t, "text")), "TC_003_NOT_FOUND", "--show-payload")
	require.NoError(t, err)
	assert.Contains(t, out, "270 Request:")
	assert.Contains(t, out, "271 Response:")
	assert.Contains(t, out, "AAA*Y*15*72*N~\n")
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(NewRunCommand(testRootOptions(t, "json")), "TC_004_PHARMACY")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "TC_004_PHARMACY", data["testId"])
	assert.Equal(t, "pharmacy", data["scenario"])
	assert.Equal(t, "passed", data["status"])
	assert.Contains(t, data["response271"], "EB*1*IND*88")
}

func TestRun_SubmittedRequest(t *testing.T) {
	req, _ := generateFiles(t, "TC_001_ACTIVE")

	out, err := execute(NewRunCommand(testRootOptions(t, "json")), "TC_001_ACTIVE", "--request", req)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "passed", data["status"])
	assert.NotContains(t, data, "response271")
}

func TestRun_MissingRequestFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.x12")

	_, err := execute(NewRunCommand(testRootOptions(t, "text")), "TC_001_ACTIVE", "--request", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_BlankTestID(t *testing.T) {
	_, err := execute(NewRunCommand(testRootOptions(t, "text")), " ")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
