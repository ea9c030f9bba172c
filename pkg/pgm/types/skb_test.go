package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSocketBufferResetAndAdvance(t *testing.T) {
	skb := NewSocketBuffer(64)
	copy(skb.Head, []byte("hello world"))
	skb.Reset(11)
	require.Equal(t, 11, skb.Len())

	skb.Advance(6)
	require.Equal(t, "world", string(skb.Data))
}

func TestMessageVectorBytes(t *testing.T) {
	a := NewSocketBuffer(8)
	a.Reset(4)
	b := NewSocketBuffer(8)
	b.Reset(2)

	mv := MessageVector{Skbs: []*SocketBuffer{a, b}}
	require.Equal(t, 6, mv.Bytes())
}
