package pgm

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

func buildODATA(gsi [6]byte, sport, dport uint16, seq uint32, payload string) []byte {
	b := make([]byte, types.HeaderLen+len(payload))
	copy(b[0:6], gsi[:])
	binary.BigEndian.PutUint16(b[6:8], sport)
	b[8] = byte(types.PacketTypeODATA)
	binary.BigEndian.PutUint16(b[12:14], dport)
	binary.BigEndian.PutUint32(b[14:18], seq)
	copy(b[types.HeaderLen:], payload)
	return b
}

func TestListenRecvFromDeliversAPDU(t *testing.T) {
	// Reserve a free port, then release it so Listen can bind the exact same
	// address; the dialing side needs a known address up front.
	probe, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	laddr := probe.LocalAddr().String()
	require.NoError(t, probe.Close())

	transport, err := Listen("udp", laddr, WithDestPort(7500), WithUDPEncapsulation(3055), WithCanSendData(false))
	require.NoError(t, err)
	defer transport.Close()

	sconn, err := net.Dial("udp", laddr)
	require.NoError(t, err)
	defer sconn.Close()

	var gsi [6]byte
	copy(gsi[:], []byte{9, 9, 9, 9, 9, 9})
	frame := buildODATA(gsi, 555, 7500, 0, "payload")
	_, err = sconn.Write(frame)
	require.NoError(t, err)

	buf := make([]byte, 64)
	deadline := time.Now().Add(2 * time.Second)
	var n int
	var status RecvStatus
	for time.Now().Before(deadline) {
		n, _, status, err = transport.RecvFrom(buf, DontWait)
		require.NoError(t, err)
		if status == StatusNormal {
			break
		}
		time.Sleep(time.Millisecond)
	}

	require.Equal(t, StatusNormal, status)
	require.Equal(t, "payload", string(buf[:n]))
}
