package types

import "net"

// IsMulticast mirrors pgm_sockaddr_is_addr_multicast: true iff addr's IP is
// a multicast address.
func IsMulticast(addr net.Addr) bool {
	ip := IPOf(addr)
	return ip != nil && ip.IsMulticast()
}

// IPOf extracts the net.IP from a net.Addr of the concrete kinds this module
// deals in (*net.UDPAddr, *net.IPAddr); nil for anything else.
func IPOf(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		return nil
	}
}

// IsIPv6 mirrors the `AF_INET6 == pgm_sockaddr_family(&src_addr)` check in
// recv.c's recvskb — evaluated on the address *value*, not a pointer to the
// local variable holding it (spec.md §9 open question).
func IsIPv6(addr net.Addr) bool {
	ip := IPOf(addr)
	return ip != nil && ip.To4() == nil
}
