package window

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

func dataSkb(seq uint32, payload string) *types.SocketBuffer {
	skb := types.NewSocketBuffer(len(payload))
	skb.Reset(len(payload))
	copy(skb.Data, payload)
	skb.SequenceNumber = seq
	return skb
}

func TestSequenceWindowInOrderFlush(t *testing.T) {
	w := NewSequenceWindow()
	require.True(t, w.OnData(dataSkb(0, "a")))
	require.True(t, w.HasPending())

	dst := make([]types.MessageVector, 4)
	delivered, bytes := w.Flush(dst, types.TSI{})
	require.Equal(t, 1, delivered)
	require.Equal(t, 1, bytes)
	require.False(t, w.HasPending())
}

func TestSequenceWindowBuffersOutOfOrder(t *testing.T) {
	w := NewSequenceWindow()
	require.True(t, w.OnData(dataSkb(0, "a")))
	require.True(t, w.OnData(dataSkb(2, "c")))
	require.True(t, w.HasPending()) // seq 0 is deliverable; seq 2 waits behind the gap at 1

	require.True(t, w.OnData(dataSkb(1, "b")))
	require.True(t, w.HasPending())

	dst := make([]types.MessageVector, 4)
	delivered, _ := w.Flush(dst, types.TSI{})
	require.Equal(t, 3, delivered)
}

func TestSequenceWindowDedupDelivery(t *testing.T) {
	w := NewSequenceWindow()
	require.True(t, w.OnData(dataSkb(0, "a")))

	dst := make([]types.MessageVector, 4)
	delivered, _ := w.Flush(dst, types.TSI{})
	require.Equal(t, 1, delivered)

	// Replaying the same valid ODATA frame twice must produce exactly one
	// APDU, not a second delivery.
	require.True(t, w.OnData(dataSkb(0, "a")))
	require.False(t, w.HasPending())
}

func TestSequenceWindowFlushBoundedByDst(t *testing.T) {
	w := NewSequenceWindow()
	for i := uint32(0); i < 3; i++ {
		require.True(t, w.OnData(dataSkb(i, "x")))
	}

	dst := make([]types.MessageVector, 2)
	delivered, _ := w.Flush(dst, types.TSI{})
	require.Equal(t, 2, delivered)
	require.True(t, w.HasPending())
}
