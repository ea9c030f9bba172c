package types

// PacketType is the PGM packet type field (pgm_header.pgm_type in the
// original C source), RFC 3208 §8.1.
type PacketType uint8

const (
	PacketTypeSPM   PacketType = 0x00
	PacketTypePoll  PacketType = 0x01
	PacketTypePolr  PacketType = 0x02
	PacketTypeODATA PacketType = 0x04
	PacketTypeRDATA PacketType = 0x05
	PacketTypeNAK   PacketType = 0x08
	PacketTypeNNAK  PacketType = 0x09
	PacketTypeNCF   PacketType = 0x0A
	PacketTypeSPMR  PacketType = 0x0C
)

func (p PacketType) String() string {
	switch p {
	case PacketTypeSPM:
		return "SPM"
	case PacketTypePoll:
		return "POLL"
	case PacketTypePolr:
		return "POLR"
	case PacketTypeODATA:
		return "ODATA"
	case PacketTypeRDATA:
		return "RDATA"
	case PacketTypeNAK:
		return "NAK"
	case PacketTypeNNAK:
		return "NNAK"
	case PacketTypeNCF:
		return "NCF"
	case PacketTypeSPMR:
		return "SPMR"
	default:
		return "UNKNOWN"
	}
}

// IsDownstream reports whether this type is carried source->receiver
// (spec.md §4.2).
func (p PacketType) IsDownstream() bool {
	switch p {
	case PacketTypeODATA, PacketTypeRDATA, PacketTypeNCF, PacketTypeSPM, PacketTypePoll:
		return true
	default:
		return false
	}
}

// IsUpstreamCapable reports whether this type can be addressed to a source
// (spec.md §4.2).
func (p PacketType) IsUpstreamCapable() bool {
	switch p {
	case PacketTypeNAK, PacketTypeNNAK, PacketTypeSPMR, PacketTypePolr:
		return true
	default:
		return false
	}
}

// IsPeerCapable reports whether this type can be multicast between
// receivers about a third-party source (spec.md §4.2).
func (p PacketType) IsPeerCapable() bool {
	switch p {
	case PacketTypeNAK, PacketTypeSPMR:
		return true
	default:
		return false
	}
}

// HeaderLen is the fixed size, in bytes, of the common header this module
// decodes ahead of every packet type's body: GSI, source port, type,
// options, checksum, dest port and the 4-byte global sequence (see the
// layout in pkg/pgm/wire). Options, when present,
// follow the type-specific body and are opaque to this module (spec.md §1
// non-goal: bit-level PGM option encoding).
const HeaderLen = 18

// OptionsPresentFlag marks bit 0 of the header's options field.
const OptionsPresentFlag = 0x01

// Header is the parsed PGM common header.
type Header struct {
	TSI            TSI
	Dport          uint16
	Type           PacketType
	OptionsPresent bool
	Checksum       uint16
	GlobalSequence uint32
}
