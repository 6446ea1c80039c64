package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smokeSuite = `name: smoke
payer:
  id: "60054"
  name: aetna
cases:
  - id: TC_001_ACTIVE
  - id: TC_002_INACTIVE
  - id: TC_003_NOT_FOUND
  - id: check-4
    label: pharmacy benefits
`

func writeSuite(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestBatch_Text(t *testing.T) {
	out, err := execute(NewBatchCommand(testRootOptions(t, "text")), writeSuite(t, smokeSuite), "--concurrency", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Suite smoke")
	assert.Contains(t, out, "✓ TC_002_INACTIVE (inactive)")
	assert.Contains(t, out, "✓ check-4 (pharmacy)")
	assert.Contains(t, out, "Batch Summary: 4 passed, 0 failed, 4 total")
}

func TestBatch_RecordAndHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(NewBatchCommand(testRootOptions(t, "json")), writeSuite(t, smokeSuite), "--record", db)
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	require.NotEmpty(t, resp.RunID)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "smoke", data["suite"])
	assert.Len(t, data["results"], 4)

	out, err = execute(NewHistoryCommand(testRootOptions(t, "text")), db)
	require.NoError(t, err)
	assert.Contains(t, out, resp.RunID)
	assert.Contains(t, out, "4/4 passed")

	out, err = execute(NewHistoryCommand(testRootOptions(t, "json")), db, "--run", resp.RunID)
	require.NoError(t, err)
	detail := decodeResponse(t, out)
	assert.Equal(t, resp.RunID, detail.RunID)
	results := detail.Data.(map[string]interface{})["results"].([]interface{})
	require.Len(t, results, 4)
	assert.Equal(t, "TC_001_ACTIVE", results[0].(map[string]interface{})["testId"])
}

func TestBatch_FailingCase(t *testing.T) {
	suite := `name: gaps
cases:
  - id: TC_001_ACTIVE
  - label: nameless
`
	out, err := execute(NewBatchCommand(testRootOptions(t, "json")), writeSuite(t, suite))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, "1 case(s) failed", resp.Error.Message)
}

func TestBatch_InvalidSuite(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.yaml") }},
		{"no cases", func(t *testing.T) string { return writeSuite(t, "name: empty\ncases: []\n") }},
		{"unknown field", func(t *testing.T) string { return writeSuite(t, "name: x\nfoo: 1\ncases:\n  - id: a\n") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(NewBatchCommand(testRootOptions(t, "text")), tt.path(t))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, ErrCodeSuite)
		})
	}
}

func TestBatch_NegativeConcurrency(t *testing.T) {
	_, err := execute(NewBatchCommand(testRootOptions(t, "text")), writeSuite(t, smokeSuite), "--concurrency", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_MissingLedger(t *testing.T) {
	out, err := execute(NewHistoryCommand(testRootOptions(t, "text")), filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "run ledger not found")
}

func TestHistory_UnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	_, err := execute(NewBatchCommand(testRootOptions(t, "text")), writeSuite(t, smokeSuite), "--record", db)
	require.NoError(t, err)

	out, err := execute(NewHistoryCommand(testRootOptions(t, "text")), db, "--run", "nope")
	require.Error(t, err)
	assert.Contains(t, out, "unknown run")
}
