package wire

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

func buildFrame(t *testing.T, payload []byte) *types.SocketBuffer {
	t.Helper()
	skb := types.NewSocketBuffer(types.HeaderLen + len(payload))
	skb.Reset(types.HeaderLen + len(payload))

	b := skb.Data
	copy(b[0:6], []byte{1, 2, 3, 4, 5, 6})
	binary.BigEndian.PutUint16(b[6:8], 9000)
	b[8] = byte(types.PacketTypeODATA)
	b[9] = 0
	binary.BigEndian.PutUint16(b[10:12], 0) // checksum 0 == "not computed"
	binary.BigEndian.PutUint16(b[12:14], 7500)
	binary.BigEndian.PutUint32(b[14:18], 42)
	copy(b[types.HeaderLen:], payload)
	return skb
}

func TestParseRawDecodesHeader(t *testing.T) {
	skb := buildFrame(t, []byte("hello"))
	p := Parser{}

	err := p.ParseRaw(skb, &net.UDPAddr{IP: net.ParseIP("239.0.0.1")})
	require.NoError(t, err)
	require.Equal(t, types.PacketTypeODATA, skb.Header.Type)
	require.EqualValues(t, 7500, skb.Header.Dport)
	require.EqualValues(t, 42, skb.SequenceNumber)
	require.Equal(t, "hello", string(skb.Data))
}

func TestParseRawTooShort(t *testing.T) {
	skb := types.NewSocketBuffer(4)
	skb.Reset(4)
	p := Parser{}

	err := p.ParseRaw(skb, nil)
	require.ErrorIs(t, err, ErrTooShort)
}

func TestParseRawBadChecksum(t *testing.T) {
	skb := buildFrame(t, []byte("hello"))
	binary.BigEndian.PutUint16(skb.Data[10:12], 0xDEAD)

	err := Parser{}.ParseRaw(skb, nil)
	require.ErrorIs(t, err, ErrChecksum)
}
