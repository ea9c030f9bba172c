// Package wire implements the PGM common-header framing collaborator that
// spec.md §6 names but leaves external ("the wire parser"). It decodes just
// enough of RFC 3208 §8.1's fixed header to let the dispatcher classify and
// route a frame; per-option TLV decoding is out of scope (spec.md §1
// non-goal: bit-level PGM option encoding).
package wire

import (
	"encoding/binary"
	"errors"
	"net"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// ErrTooShort is returned when a datagram is smaller than the fixed common
// header, or smaller than its declared content requires.
var ErrTooShort = errors.New("wire: frame shorter than pgm header")

// ErrChecksum is returned when the header checksum does not match. Per
// spec.md §4.1/§7, this is tracked separately from a generic discard so the
// SOURCE_CKSUM_ERRORS counter can be bumped.
var ErrChecksum = errors.New("wire: checksum mismatch")

// common header layout as this parser decodes it (field names after
// RFC 3208 §8.1; types.HeaderLen == 18 bytes):
//
//	0                   1                   2                   3
//	0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                    Global Source ID (GSI) ...                 |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|         ... GSI cont.         |          Source Port          |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|      Type     |    Options    |           Checksum            |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|           Dest Port           |      Global Sequence ...      |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|   ... Global Sequence cont.   |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
const (
	offGSI      = 0
	offSport    = 6
	offType     = 8
	offOptions  = 9
	offChecksum = 10
	offDport    = 12
	offSeq      = 14
)

// Parser implements the core.WireParser contract for both the raw-IP and
// UDP-encapsulated socket kinds.
type Parser struct{}

// ParseRaw decodes a frame read from a raw IP socket. dst is the recovered
// destination address from the socket reader's control-message lookup; it is
// accepted here (not used for framing) purely to mirror pgm_parse_raw's
// signature, which needs it to validate the IP header against multicast
// membership — validation this retrieval pack's scope excludes (spec.md §1:
// "PGM wire parsing itself" is out of scope beyond the common header).
func (Parser) ParseRaw(skb *types.SocketBuffer, dst net.Addr) error {
	return parseCommon(skb)
}

// ParseUDPEncap decodes a frame read from a UDP-encapsulated socket. The
// UDP socket delivers only the UDP payload, which starts directly with the
// PGM common header, so the decode is identical to the raw-IP case.
func (Parser) ParseUDPEncap(skb *types.SocketBuffer) error {
	return parseCommon(skb)
}

func parseCommon(skb *types.SocketBuffer) error {
	if len(skb.Data) < types.HeaderLen {
		return ErrTooShort
	}
	b := skb.Data

	var gsi types.GSI
	copy(gsi[:], b[offGSI:offGSI+6])

	h := &types.Header{
		TSI: types.TSI{
			GSI:   gsi,
			Sport: binary.BigEndian.Uint16(b[offSport:]),
		},
		Type:           types.PacketType(b[offType]),
		OptionsPresent: b[offOptions]&types.OptionsPresentFlag != 0,
		Checksum:       binary.BigEndian.Uint16(b[offChecksum:]),
		Dport:          binary.BigEndian.Uint16(b[offDport:]),
		GlobalSequence: binary.BigEndian.Uint32(b[offSeq:]),
	}

	if !verifyChecksum(b, h.Checksum) {
		return ErrChecksum
	}

	skb.Header = h
	skb.TSI = h.TSI
	skb.SequenceNumber = h.GlobalSequence
	skb.Data = b[types.HeaderLen:]
	return nil
}

// verifyChecksum recomputes the standard Internet one's-complement checksum
// over the frame with the checksum field zeroed, and compares.
func verifyChecksum(b []byte, want uint16) bool {
	if want == 0 {
		// PGM, like UDP, allows an all-zero checksum to mean "not computed".
		return true
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	buf[offChecksum] = 0
	buf[offChecksum+1] = 0

	var sum uint32
	for i := 0; i+1 < len(buf); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(buf[i:]))
	}
	if len(buf)%2 == 1 {
		sum += uint32(buf[len(buf)-1]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	got := ^uint16(sum)
	return got == want
}
