package types

import "github.com/rs/xid"

// NewLocalGSI mints a locally-unique GSI for a transport that was not
// configured with one explicitly. xid packs a timestamp, machine id and
// counter into 12 bytes; the low 6 are good enough entropy for a process-local
// source identifier and avoid pulling in a random source of our own.
func NewLocalGSI() GSI {
	id := xid.New()
	var gsi GSI
	copy(gsi[:], id.Bytes()[6:12])
	return gsi
}
