package core

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPipeNotifierSendClearIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	n, err := NewPipeNotifier()
	require.NoError(t, err)
	defer n.Close()

	require.True(t, n.IsValid())
	require.NoError(t, n.Send())
	require.NoError(t, n.Send()) // second Send before Clear is a no-op
	require.NoError(t, n.Clear())
	require.NoError(t, n.Clear()) // second Clear before Send is a no-op
}

func TestPipeNotifierCloseInvalidates(t *testing.T) {
	n, err := NewPipeNotifier()
	require.NoError(t, err)

	require.NoError(t, n.Close())
	require.False(t, n.IsValid())
	require.Equal(t, -1, n.ReadFD())
}
