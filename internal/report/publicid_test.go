package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPublicID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := NewPublicID()
		require.NoError(t, err)
		require.Len(t, id, 8)
		for _, r := range id {
			require.True(t, strings.ContainsRune(publicIDAlphabet, r),
				"unexpected character %q in %q", r, id)
		}
		seen[id] = struct{}{}
	}

	// collisions across 100 draws from a 36^8 space mean a broken generator
	require.Len(t, seen, 100)
}
