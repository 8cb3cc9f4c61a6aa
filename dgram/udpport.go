package dgram

import (
	"fmt"
	"net"
	"time"
)

// UDPPort is the real, socket-backed Port: a net.UDPConn bound to a local
// address and fixed to a single peer.
type UDPPort struct {
	conn    *net.UDPConn
	peer    *net.UDPAddr
	timeout time.Duration
}

// DialUDP binds a UDP socket at localAddr and targets it at peerAddr, with
// RecvFrom timing out (ErrTimeout) after timeout of inactivity -- the short
// poll interval the listener uses to notice it should re-beacon.
func DialUDP(localAddr, peerAddr string, timeout time.Duration) (*UDPPort, error) {
	laddr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, fmt.Errorf("dgram: resolve local address %q: %w", localAddr, err)
	}
	raddr, err := net.ResolveUDPAddr("udp", peerAddr)
	if err != nil {
		return nil, fmt.Errorf("dgram: resolve peer address %q: %w", peerAddr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("dgram: listen on %q: %w", localAddr, err)
	}
	return &UDPPort{conn: conn, peer: raddr, timeout: timeout}, nil
}

// SendTo implements Port.
func (p *UDPPort) SendTo(b []byte) error {
	_, err := p.conn.WriteToUDP(b, p.peer)
	return err
}

// RecvFrom implements Port. Datagrams from any address other than the
// configured peer are discarded and polling continues: each endpoint is
// fixed to exactly one peer for its lifetime.
func (p *UDPPort) RecvFrom(capacity int) ([]byte, error) {
	buf := make([]byte, capacity)
	for {
		if err := p.conn.SetReadDeadline(time.Now().Add(p.timeout)); err != nil {
			return nil, err
		}
		n, from, err := p.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil, ErrTimeout
			}
			return nil, err
		}
		if !from.IP.Equal(p.peer.IP) || from.Port != p.peer.Port {
			continue
		}
		out := make([]byte, n)
		copy(out, buf[:n])
		return out, nil
	}
}

// Close implements Port.
func (p *UDPPort) Close() error {
	return p.conn.Close()
}
