package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionStrings checks Short and Full are populated and consistent.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Contains(t, Full(), Commit)
}
