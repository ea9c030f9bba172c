// Package types holds the wire-level data model shared by the PGM receive
// path: TSI/GSI identifiers, the socket buffer cursor, parsed headers,
// message vectors and the statistics ABI.
package types

import (
	"encoding/hex"
	"fmt"
)

// GSI is the 6-byte Global Source Identifier naming a PGM source.
type GSI [6]byte

// Equal reports whether two GSIs name the same source.
func (g GSI) Equal(other GSI) bool {
	return g == other
}

func (g GSI) String() string {
	return hex.EncodeToString(g[:])
}

// TSI is the Transport Session Identifier: a GSI plus the source port.
type TSI struct {
	GSI   GSI
	Sport uint16
}

func (t TSI) String() string {
	return fmt.Sprintf("%s.%d", t.GSI, t.Sport)
}

// Equal reports whether two TSIs name the same source/session.
func (t TSI) Equal(other TSI) bool {
	return t.GSI.Equal(other.GSI) && t.Sport == other.Sport
}
