package types

// MessageVector is the caller-owned delivery array; each entry holds the
// skbs owned by the receive window constituting one reassembled APDU
// (spec.md §3, `pgm_msgv_t`).
type MessageVector struct {
	// Skbs are the TPDUs making up this APDU, in sequence order. For a
	// single-TPDU APDU this has length 1.
	Skbs []*SocketBuffer

	// From identifies the source that produced this APDU.
	From TSI
}

// Bytes returns the total APDU length across all constituent TPDUs.
func (m *MessageVector) Bytes() int {
	n := 0
	for _, skb := range m.Skbs {
		n += skb.Len()
	}
	return n
}
