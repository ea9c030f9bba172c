package core

import (
	"net"

	"github.com/higebu/netfd"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// Socket is the receive socket abstraction SocketReader reads from: either a
// raw IP socket or a UDP-encapsulated one (spec.md §1/§4.1). It wraps
// whatever net.PacketConn the caller bound (raw IP via *net.IPConn, or UDP
// via *net.UDPConn) with the matching golang.org/x/net control-message
// reader so the true destination address can be recovered per datagram.
type Socket struct {
	conn net.PacketConn
	pc4  *ipv4.PacketConn
	pc6  *ipv6.PacketConn
	v6   bool

	// UDPEncapPort is non-zero when this socket carries PGM encapsulated in
	// UDP rather than a raw IP protocol number (spec.md §3).
	UDPEncapPort uint16

	fd int
}

// NewSocket wraps an already-bound net.PacketConn. v6 selects which
// golang.org/x/net control-message flavor to enable; udpEncapPort is 0 for
// raw IP sockets.
func NewSocket(conn net.PacketConn, v6 bool, udpEncapPort uint16) (*Socket, error) {
	s := &Socket{conn: conn, v6: v6, UDPEncapPort: udpEncapPort, fd: -1}

	if v6 {
		s.pc6 = ipv6.NewPacketConn(conn)
		if err := s.pc6.SetControlMessage(ipv6.FlagDst|ipv6.FlagInterface, true); err != nil {
			return nil, err
		}
	} else {
		s.pc4 = ipv4.NewPacketConn(conn)
		if err := s.pc4.SetControlMessage(ipv4.FlagDst|ipv4.FlagInterface, true); err != nil {
			return nil, err
		}
	}

	if nc, ok := conn.(net.Conn); ok {
		s.fd = netfd.GetFdFromConn(nc)
	}
	return s, nil
}

// FD returns the underlying file descriptor for use with unix.Poll, or -1 if
// it could not be recovered.
func (s *Socket) FD() int { return s.fd }

// Close releases the underlying connection.
func (s *Socket) Close() error { return s.conn.Close() }

// ReadOne performs one control-message-aware read, populating buf and
// returning the source address and the recovered destination address.
// Mirrors recvskb()'s control-message walk (spec.md §4.1): for IPv4 it reads
// the IP_PKTINFO local address; for IPv6 it reads IPV6_PKTINFO's local
// address and sets the returned address's zone to the arrival interface.
//
// Destination recovery is mandatory whenever this socket is UDP-encap or
// IPv6 (spec.md §4.1 policy). ReadOne itself blocks; MSG_DONTWAIT-equivalent
// semantics come from a read deadline that the caller (socketReader) sets
// before invoking it.
func (s *Socket) ReadOne(buf []byte) (n int, src, dst net.Addr, err error) {
	if s.v6 {
		return s.readV6(buf)
	}
	return s.readV4(buf)
}

func (s *Socket) readV4(buf []byte) (int, net.Addr, net.Addr, error) {
	n, cm, src, err := s.pc4.ReadFrom(buf)
	if err != nil {
		return n, nil, nil, err
	}
	mandatory := s.UDPEncapPort != 0
	if cm == nil || cm.Dst == nil {
		if mandatory {
			return n, src, nil, ErrInvalidFrame
		}
		return n, src, src, nil
	}
	dst := &net.UDPAddr{IP: cm.Dst}
	return n, src, dst, nil
}

func (s *Socket) readV6(buf []byte) (int, net.Addr, net.Addr, error) {
	n, cm, src, err := s.pc6.ReadFrom(buf)
	if err != nil {
		return n, nil, nil, err
	}
	// Destination recovery via control data is always mandatory for IPv6
	// (spec.md §4.1 policy).
	if cm == nil || cm.Dst == nil {
		return n, src, nil, ErrInvalidFrame
	}
	dst := &net.UDPAddr{IP: cm.Dst, Zone: zoneFromIfIndex(cm.IfIndex)}
	return n, src, dst, nil
}

func zoneFromIfIndex(ifIndex int) string {
	if ifIndex == 0 {
		return ""
	}
	if iface, err := net.InterfaceByIndex(ifIndex); err == nil {
		return iface.Name
	}
	return ""
}

// socketReader drives Socket.ReadOne into a types.SocketBuffer, applying the
// mandatory-recovery and zero-length-close policy of spec.md §4.1.
type socketReader struct{}

// ReadOne reads a single datagram into skb, bounded by len(skb.Head)
// (== transport.MaxTPDU), and stamps the skb's metadata. Returns
// ErrClosed on a zero-length read, ErrWouldBlock if dontwait and nothing was
// ready, or ErrInvalidFrame if mandatory destination recovery failed.
func (socketReader) ReadOne(sock *Socket, skb *types.SocketBuffer, dontwait bool) (src, dst net.Addr, err error) {
	if dontwait {
		_ = setNonblockingDeadline(sock)
	} else {
		_ = clearDeadline(sock)
	}

	n, src, dst, err := sock.ReadOne(skb.Head)
	if err != nil {
		if isWouldBlock(err) {
			return nil, nil, ErrWouldBlock
		}
		if err == ErrInvalidFrame {
			return src, nil, ErrInvalidFrame
		}
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, ErrClosed
	}

	skb.Reset(n)
	skb.Tstamp = now()
	return src, dst, nil
}
