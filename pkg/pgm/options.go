package pgm

import (
	"time"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// pgmProtocolNumber is PGM's IANA-assigned IP protocol number (RFC 3208),
// used to bind a raw IP socket when UDP encapsulation is not requested.
const pgmProtocolNumber = 113

// defaultMaxTPDU matches the common Ethernet-bound PGM deployment default
// (the 1500-byte Ethernet MTU), large enough for the single-TPDU-per-APDU
// reference window this module ships (spec.md §1 non-goal: APDU
// fragmentation reassembly across TPDUs).
const defaultMaxTPDU = 1500

// defaultSPMInterval is the ambient SPM/repair-timeout tick the reference
// timerwheel.SPMTimer fires on absent an explicit Option.
const defaultSPMInterval = 30 * time.Second

// defaultMaxRetries is how many missed repair deadlines the reference timer
// tolerates before declaring a peer's loss unrecoverable.
const defaultMaxRetries = 5

// config accumulates Option values before Listen builds the transport.
type config struct {
	dport               uint16
	maxTPDU             uint16
	canSendData         bool
	canRecvData         bool
	udpEncapPort        uint16
	isEdgeTriggeredRecv bool
	isAbortOnReset      bool
	spmInterval         time.Duration
	maxRetries          int
	logger              types.Logger
	statSink            types.Sink
}

func defaultConfig() config {
	return config{
		maxTPDU:     defaultMaxTPDU,
		canRecvData: true,
		spmInterval: defaultSPMInterval,
		maxRetries:  defaultMaxRetries,
	}
}

// Option configures a Transport at construction time (spec.md §1 ambient
// stack: a plain functional-options layer, matching the teacher's hand-built
// configuration structs rather than a config framework).
type Option func(*config)

// WithDestPort sets the PGM dest-port this transport listens for (spec.md
// §3's dport).
func WithDestPort(port uint16) Option {
	return func(c *config) { c.dport = port }
}

// WithMaxTPDU bounds the largest datagram this transport will read.
func WithMaxTPDU(n uint16) Option {
	return func(c *config) { c.maxTPDU = n }
}

// WithUDPEncapsulation requests PGM-over-UDP on the given port instead of a
// raw IP socket (spec.md §4.1's udp_encap_ucast_port).
func WithUDPEncapsulation(port uint16) Option {
	return func(c *config) { c.udpEncapPort = port }
}

// WithCanSendData marks this transport as also acting as a source, so
// upstream NAK/NNAK/SPMR frames addressed to it are processed rather than
// discarded (spec.md §4.3).
func WithCanSendData(can bool) Option {
	return func(c *config) { c.canSendData = can }
}

// WithEdgeTriggeredRecv switches the pending-data notifier between
// level-triggered (default) and edge-triggered semantics (spec.md §4.7).
func WithEdgeTriggeredRecv(edge bool) Option {
	return func(c *config) { c.isEdgeTriggeredRecv = edge }
}

// WithAbortOnReset controls whether the reset flag stays latched after
// being surfaced once (spec.md §4.7 reset fast-path).
func WithAbortOnReset(abort bool) Option {
	return func(c *config) { c.isAbortOnReset = abort }
}

// WithSPMInterval overrides the ambient timer's fixed fire interval.
func WithSPMInterval(d time.Duration) Option {
	return func(c *config) { c.spmInterval = d }
}

// WithMaxRetries overrides how many missed repair deadlines the timer
// tolerates before declaring a reset.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.maxRetries = n }
}

// WithLogger installs a caller-supplied logger in place of
// definition.NewDefaultLogger.
func WithLogger(l types.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStatSink installs an ambient metrics sink (e.g. metrics.Exporter) that
// mirrors every statistics counter increment.
func WithStatSink(sink types.Sink) Option {
	return func(c *config) { c.statSink = sink }
}
