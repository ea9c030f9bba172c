package core

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// fakeWindow is a minimal ReceiveWindow double so dispatch tests don't need
// the real sliding-window implementation in pkg/pgm/window.
type fakeWindow struct {
	accept  bool
	pending bool
}

func (w *fakeWindow) OnData(*types.SocketBuffer) bool    { return w.accept }
func (w *fakeWindow) OnNCF(*types.SocketBuffer) bool      { return w.accept }
func (w *fakeWindow) OnSPM(*types.SocketBuffer) bool      { return w.accept }
func (w *fakeWindow) OnNAK(*types.SocketBuffer) bool      { return w.accept }
func (w *fakeWindow) OnPeerNAK(*types.SocketBuffer) bool  { return w.accept }
func (w *fakeWindow) OnNNAK(*types.SocketBuffer) bool     { return w.accept }
func (w *fakeWindow) OnSPMR(*types.SocketBuffer) bool     { return w.accept }
func (w *fakeWindow) HasPending() bool                    { return w.pending }
func (w *fakeWindow) Flush(dst []types.MessageVector, tsi types.TSI) (int, int) {
	if len(dst) == 0 || !w.pending {
		return 0, 0
	}
	dst[0] = types.MessageVector{From: tsi}
	w.pending = false
	return 1, 1
}

func newTestTransport() *Transport {
	return &Transport{
		TSI:          types.TSI{Sport: 9000},
		DPort:        7500,
		CanRecvData:  true,
		CanSendData:  true,
		peers:        make(map[types.TSI]*Peer),
		peersPending: NewPendingSet(),
		newWindow:    func() ReceiveWindow { return &fakeWindow{accept: true, pending: true} },
		Stats:        &types.Stats{},
	}
}

func odataSkb(from types.TSI, dport uint16) *types.SocketBuffer {
	skb := types.NewSocketBuffer(16)
	skb.Reset(16)
	skb.TSI = from
	skb.Header = &types.Header{TSI: from, Dport: dport, Type: types.PacketTypeODATA}
	return skb
}

func TestDispatchDownstreamCreatesPeerAndMarksPending(t *testing.T) {
	transport := newTestTransport()
	from := types.TSI{GSI: types.GSI{1}, Sport: 1111}
	src := &net.UDPAddr{IP: net.ParseIP("10.0.0.1")}
	dst := &net.UDPAddr{IP: net.ParseIP("239.0.0.1")}

	source, accepted := transport.Dispatch(odataSkb(from, 7500), src, dst)
	require.True(t, accepted)
	require.NotNil(t, source)
	require.Equal(t, from, source.TSI)
	require.False(t, transport.peersPending.Empty())
}

func TestDispatchDownstreamWrongDportDiscards(t *testing.T) {
	transport := newTestTransport()
	from := types.TSI{GSI: types.GSI{2}, Sport: 2222}

	_, accepted := transport.Dispatch(odataSkb(from, 1), nil, nil)
	require.False(t, accepted)
	require.True(t, transport.peersPending.Empty())
}

func TestDispatchPeerUnknownSourceDiscards(t *testing.T) {
	transport := newTestTransport()
	skb := types.NewSocketBuffer(16)
	skb.Reset(16)
	unknown := types.TSI{GSI: types.GSI{9}, Sport: 42}
	skb.TSI = unknown
	skb.Header = &types.Header{Dport: transport.DPort, Type: types.PacketTypeNAK}

	source, accepted := transport.Dispatch(skb, nil, nil)
	require.False(t, accepted)
	require.Nil(t, source)
}
