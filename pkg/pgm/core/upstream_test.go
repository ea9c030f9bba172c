package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

func nakSkb(wireSport, dport uint16) *types.SocketBuffer {
	skb := types.NewSocketBuffer(16)
	skb.Reset(16)
	skb.Header = &types.Header{
		TSI:   types.TSI{Sport: wireSport},
		Dport: dport,
		Type:  types.PacketTypeNAK,
	}
	return skb
}

func TestHandleUpstreamAcceptsMatchingReversedSport(t *testing.T) {
	transport := newTestTransport()
	transport.newWindow = func() ReceiveWindow { return &fakeWindow{accept: true} }

	accepted := transport.HandleUpstream(nakSkb(transport.DPort, transport.TSI.Sport))
	require.True(t, accepted)
	require.EqualValues(t, 0, transport.Stats.Get(types.StatSourcePacketsDiscarded))
}

func TestHandleUpstreamDiscardsOnSportMismatch(t *testing.T) {
	transport := newTestTransport()
	transport.newWindow = func() ReceiveWindow { return &fakeWindow{accept: true} }

	accepted := transport.HandleUpstream(nakSkb(transport.DPort+1, transport.TSI.Sport))
	require.False(t, accepted)
	require.EqualValues(t, 1, transport.Stats.Get(types.StatSourcePacketsDiscarded))
}

func TestHandleUpstreamDiscardsWhenMuted(t *testing.T) {
	transport := newTestTransport()
	transport.CanSendData = false

	accepted := transport.HandleUpstream(nakSkb(transport.DPort, transport.TSI.Sport))
	require.False(t, accepted)
	require.EqualValues(t, 1, transport.Stats.Get(types.StatSourcePacketsDiscarded))
}

func TestHandleUpstreamDiscardsOnGSIMismatch(t *testing.T) {
	transport := newTestTransport()
	skb := nakSkb(transport.DPort, transport.TSI.Sport)
	skb.Header.TSI.GSI = types.GSI{1, 2, 3, 4, 5, 6}

	accepted := transport.HandleUpstream(skb)
	require.False(t, accepted)
	require.EqualValues(t, 1, transport.Stats.Get(types.StatSourcePacketsDiscarded))
}
