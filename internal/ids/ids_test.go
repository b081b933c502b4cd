package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIsMonotonic(t *testing.T) {
	prev := New()
	for i := 0; i < 1000; i++ {
		next := New()
		require.Greater(t, next, prev, "ids must be strictly increasing")
		prev = next
	}
}

func TestForAddsPrefix(t *testing.T) {
	gen := For(PrefixPaper)
	a, b := gen(), gen()
	require.True(t, strings.HasPrefix(a, PrefixPaper))
	require.NotEqual(t, a, b)
}

func TestSequence(t *testing.T) {
	gen := Sequence("t")
	require.Equal(t, "t1", gen())
	require.Equal(t, "t2", gen())
	require.Equal(t, "t3", gen())
}
