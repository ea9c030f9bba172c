package types

import "time"

// SocketBuffer is a single datagram frame. It models the C source's
// `struct pgm_sk_buff_t` pointer triple (head/data/tail) as two slices over
// one backing array (Data's end plays the role of tail): advancing past a
// header is a re-slice, never pointer
// arithmetic across an ownership boundary (spec.md §9 design note).
type SocketBuffer struct {
	// Head is the fixed backing array the datagram was read into.
	Head []byte

	// Data is the unconsumed remainder of Head; parsing advances Data's
	// start as headers are stripped.
	Data []byte

	// Header is populated once the wire parser has run.
	Header *Header

	// TSI is a copy of Header.TSI, pulled out for convenient dispatch.
	TSI TSI

	// Tstamp is the monotonic receive time set by the socket reader.
	Tstamp time.Time

	// SequenceNumber is the data sequence number for ODATA/RDATA frames,
	// populated by the wire parser; used by the receive window.
	SequenceNumber uint32
}

// Len is the number of unconsumed bytes remaining in the frame.
func (s *SocketBuffer) Len() int {
	return len(s.Data)
}

// Advance drops n bytes from the front of Data, e.g. after consuming the
// common header.
func (s *SocketBuffer) Advance(n int) {
	s.Data = s.Data[n:]
}

// Reset re-points Data at the start of Head with the given logical length,
// as done once per successful read (spec.md §4.1).
func (s *SocketBuffer) Reset(n int) {
	s.Data = s.Head[:n]
}

// NewSocketBuffer allocates a SocketBuffer with a backing array sized to
// maxTPDU, as the dispatcher does whenever it replaces a retained rx buffer
// (spec.md §3 invariant on rx_buffer ownership transfer).
func NewSocketBuffer(maxTPDU int) *SocketBuffer {
	return &SocketBuffer{Head: make([]byte, maxTPDU)}
}
