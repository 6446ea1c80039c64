package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Text(t *testing.T) {
	out, err := execute(NewStatusCommand(testRootOptions(t, "text")))
	require.NoError(t, err)

	assert.Contains(t, out, "Payer:        Aetna (Mock) (60054)")
	assert.Contains(t, out, "Transactions: 270, 271")
	assert.Contains(t, out, "Latency:      0s - 0s")
}

func TestStatus_JSON(t *testing.T) {
	out, err := execute(NewStatusCommand(testRootOptions(t, "json")))
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]interface{})
	assert.Equal(t, "60054", data["payerId"])
	assert.Equal(t, "T", data["usageIndicator"])
}
