package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

func peerNakSkb(from types.TSI, dport uint16) *types.SocketBuffer {
	skb := types.NewSocketBuffer(16)
	skb.Reset(16)
	skb.TSI = from
	skb.Header = &types.Header{TSI: from, Dport: dport, Type: types.PacketTypeNAK}
	return skb
}

func TestHandlePeerAcceptsKnownSource(t *testing.T) {
	transport := newTestTransport()
	from := types.TSI{GSI: types.GSI{7}, Sport: 4242}
	peer := NewPeer(from, nil, nil, transport.newWindow)
	transport.peers[from] = peer

	source, accepted := transport.HandlePeer(peerNakSkb(from, transport.DPort))
	require.True(t, accepted)
	require.Same(t, peer, source)
}

func TestHandlePeerUnknownSourceDiscardsAsReceiver(t *testing.T) {
	transport := newTestTransport()
	from := types.TSI{GSI: types.GSI{8}, Sport: 4343}

	source, accepted := transport.HandlePeer(peerNakSkb(from, transport.DPort))
	require.False(t, accepted)
	require.Nil(t, source)
	require.EqualValues(t, 1, transport.Stats.Get(types.StatReceiverPacketsDiscarded))
}

func TestHandlePeerMutedReceiverDiscardsAsSource(t *testing.T) {
	transport := newTestTransport()
	transport.CanRecvData = false
	from := types.TSI{GSI: types.GSI{8}, Sport: 4343}

	source, accepted := transport.HandlePeer(peerNakSkb(from, transport.DPort))
	require.False(t, accepted)
	require.Nil(t, source)
	require.EqualValues(t, 1, transport.Stats.Get(types.StatSourcePacketsDiscarded))
}

func TestHandlePeerDportMismatchDiscardsAsSource(t *testing.T) {
	transport := newTestTransport()
	from := types.TSI{GSI: types.GSI{8}, Sport: 4343}

	source, accepted := transport.HandlePeer(peerNakSkb(from, transport.DPort+1))
	require.False(t, accepted)
	require.Nil(t, source)
	require.EqualValues(t, 1, transport.Stats.Get(types.StatSourcePacketsDiscarded))
}

func TestHandlePeerDiscardDoesNotBumpSourceCounterWhenMuted(t *testing.T) {
	transport := newTestTransport()
	transport.CanRecvData = false
	transport.CanSendData = false
	from := types.TSI{GSI: types.GSI{8}, Sport: 4343}

	_, accepted := transport.HandlePeer(peerNakSkb(from, transport.DPort))
	require.False(t, accepted)
	require.EqualValues(t, 0, transport.Stats.Get(types.StatSourcePacketsDiscarded))
}
