package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGSIEqual(t *testing.T) {
	a := GSI{1, 2, 3, 4, 5, 6}
	b := GSI{1, 2, 3, 4, 5, 6}
	c := GSI{1, 2, 3, 4, 5, 7}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestTSIEqualAndString(t *testing.T) {
	tsi1 := TSI{GSI: GSI{1, 2, 3, 4, 5, 6}, Sport: 1000}
	tsi2 := TSI{GSI: GSI{1, 2, 3, 4, 5, 6}, Sport: 1000}
	tsi3 := TSI{GSI: GSI{1, 2, 3, 4, 5, 6}, Sport: 1001}

	require.True(t, tsi1.Equal(tsi2))
	require.False(t, tsi1.Equal(tsi3))
	require.Contains(t, tsi1.String(), "010203040506")
}

func TestNewLocalGSIIsNonZero(t *testing.T) {
	g := NewLocalGSI()
	require.NotEqual(t, GSI{}, g)
}
