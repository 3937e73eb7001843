package feed

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

// TransportError reports a failure to set up the multicast send endpoint.
// These are fatal at startup; no partial run is attempted.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("feed: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewMulticastConn opens a UDP endpoint that sends to the given IPv4
// multicast group with the given TTL. Multicast loopback stays on so
// receivers on the same host see the feed.
func NewMulticastConn(group string, port, ttl int) (*net.UDPConn, error) {
	ip := net.ParseIP(group)
	if ip == nil || ip.To4() == nil || !ip.IsMulticast() {
		return nil, &TransportError{Op: "resolve group", Err: fmt.Errorf("not an IPv4 multicast address: %q", group)}
	}
	if port <= 0 || port > 65535 {
		return nil, &TransportError{Op: "resolve group", Err: fmt.Errorf("port out of range: %d", port)}
	}
	if ttl < 0 || ttl > 255 {
		return nil, &TransportError{Op: "set ttl", Err: fmt.Errorf("ttl out of range: %d", ttl)}
	}

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: ip.To4(), Port: port})
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}

	p := ipv4.NewPacketConn(conn)
	if err := p.SetMulticastTTL(ttl); err != nil {
		conn.Close()
		return nil, &TransportError{Op: "set ttl", Err: err}
	}
	if err := p.SetMulticastLoopback(true); err != nil {
		conn.Close()
		return nil, &TransportError{Op: "set loopback", Err: err}
	}

	return conn, nil
}
