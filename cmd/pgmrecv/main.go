// Command pgmrecv is a small diagnostic receiver: it binds a PGM transport
// on the requested network/address/dest-port and prints every delivered
// APDU until interrupted. It exists to exercise pkg/pgm end to end the way
// a real deployment would, not as a library entry point.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jabolina/go-pgm/pkg/pgm"
	"github.com/jabolina/go-pgm/pkg/pgm/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	network      string
	laddr        string
	destPort     uint16
	udpEncapPort uint16
	canSend      bool
	edgeTrigger  bool
	maxTPDU      uint16
	withMetrics  bool
)

func main() {
	root := &cobra.Command{
		Use:   "pgmrecv",
		Short: "Receive PGM multicast traffic and print delivered APDUs",
		RunE:  run,
	}

	flags := root.Flags()
	flags.StringVar(&network, "network", "ip4", "ip4, ip6, or udp (with --udp-encap-port)")
	flags.StringVar(&laddr, "listen", "0.0.0.0:0", "local address to bind")
	flags.Uint16Var(&destPort, "dest-port", 7500, "PGM destination port to listen for")
	flags.Uint16Var(&udpEncapPort, "udp-encap-port", 0, "bind as UDP-encapsulated PGM on this port instead of raw IP")
	flags.BoolVar(&canSend, "can-send", false, "also accept upstream NAK/NNAK/SPMR frames addressed to this transport")
	flags.BoolVar(&edgeTrigger, "edge-triggered", false, "use edge-triggered pending-data notification")
	flags.Uint16Var(&maxTPDU, "max-tpdu", 1500, "largest datagram this transport will read")
	flags.BoolVar(&withMetrics, "metrics", false, "mirror statistics into the default prometheus registry")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	opts := []pgm.Option{
		pgm.WithDestPort(destPort),
		pgm.WithMaxTPDU(maxTPDU),
		pgm.WithCanSendData(canSend),
		pgm.WithEdgeTriggeredRecv(edgeTrigger),
	}
	if udpEncapPort != 0 {
		opts = append(opts, pgm.WithUDPEncapsulation(udpEncapPort))
		network = "udp"
	}
	if withMetrics {
		opts = append(opts, pgm.WithStatSink(metrics.NewExporter(prometheus.DefaultRegisterer, "pgmrecv")))
	}

	t, err := pgm.Listen(network, laddr, opts...)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer t.Close()

	fmt.Printf("listening tsi=%s dest-port=%d\n", t.TSI(), destPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		<-sigCh
		_ = t.Close()
		close(done)
	}()

	buf := make([]byte, 65536)
	for {
		select {
		case <-done:
			return nil
		default:
		}

		n, from, status, err := t.RecvFrom(buf, 0)
		switch status {
		case pgm.StatusNormal:
			fmt.Printf("apdu from=%s bytes=%d\n", from, n)
		case pgm.StatusAgain:
			continue
		case pgm.StatusEof:
			fmt.Fprintf(os.Stderr, "reset: %v\n", err)
		case pgm.StatusError:
			return err
		}
	}
}
