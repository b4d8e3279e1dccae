package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownFlag_ShowsHelpAndUsageError(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "validate", "--unknown-flag")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "unknown flag")
	assert.Contains(t, err.Error(), "Usage:")
}

func TestRootWithoutArgs_PrintsHelp(t *testing.T) {
	t.Parallel()

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "specroute")
	assert.Contains(t, out, "validate")
	assert.Contains(t, out, "routes")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "specroute dev")
	assert.Contains(t, out, "Go Version:")
}
