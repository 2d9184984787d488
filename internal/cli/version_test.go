package cli

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	newCLIEnv(t)

	out, err := runCLI(t, "version")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "skillhub version "+Version, lines[0])
	assert.Equal(t, "  commit: "+Commit, lines[1])
	assert.Equal(t, "  built: "+BuildDate, lines[2])
	assert.Equal(t, "  go: "+runtime.Version(), lines[3])
}

func TestVersionFlagMatchesCommand(t *testing.T) {
	newCLIEnv(t)

	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
