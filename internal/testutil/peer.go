package testutil

import (
	"net"
	"net/netip"
	"testing"
	"time"
)

// Peer is a loopback TCP listener that stands in for a debug target.
type Peer struct {
	ln    net.Listener
	conns chan net.Conn
}

// NewPeer listens on an ephemeral 127.0.0.1 port. The listener and every
// accepted connection are closed when the test ends.
func NewPeer(t *testing.T) *Peer {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen on loopback: %v", err)
	}
	p := &Peer{ln: ln, conns: make(chan net.Conn, 4)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				close(p.conns)
				return
			}
			p.conns <- conn
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		for conn := range p.conns {
			_ = conn.Close()
		}
	})
	return p
}

// Address is the IPv4 literal of the listener.
func (p *Peer) Address() string {
	return "127.0.0.1"
}

// Port is the ephemeral port the listener is bound to.
func (p *Peer) Port() uint16 {
	return netip.MustParseAddrPort(p.ln.Addr().String()).Port()
}

// Accept waits for the next inbound connection. The caller owns the result.
func (p *Peer) Accept(t *testing.T) net.Conn {
	t.Helper()
	select {
	case conn, ok := <-p.conns:
		if !ok {
			t.Fatalf("peer listener closed before a connection arrived")
		}
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for inbound connection")
	}
	return nil
}

// ClosedPort returns a loopback port with nothing listening on it.
func ClosedPort(t *testing.T) uint16 {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port := netip.MustParseAddrPort(ln.Addr().String()).Port()
	_ = ln.Close()
	return port
}
