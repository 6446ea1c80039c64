package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// testRootOptions points --config at a zero-latency config file.
func testRootOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eligsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("latency:\n  min: 0s\n  max: 0s\n"), 0o644))
	return &RootOptions{Format: format, ConfigPath: path}
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// generateFiles writes the 270 and 271 for testID into a temp dir.
func generateFiles(t *testing.T, testID string, extra ...string) (req, resp string) {
	t.Helper()
	dir := t.TempDir()
	args := append([]string{testID, "--out", dir}, extra...)
	_, err := execute(NewGenerateCommand(testRootOptions(t, "text")), args...)
	require.NoError(t, err)
	return filepath.Join(dir, testID+"_270.x12"), filepath.Join(dir, testID+"_271.x12")
}
