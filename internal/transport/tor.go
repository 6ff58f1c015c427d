package transport

import (
	"net"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultSOCKSAddr is where a local Tor daemon normally exposes SOCKS5.
const DefaultSOCKSAddr = "127.0.0.1:9050"

// DialSOCKS5 connects to target through a SOCKS5 proxy (typically Tor).
// The proxy resolves the target, so .onion addresses work and no DNS query
// leaves the local host.
func DialSOCKS5(proxyAddr, target string) (*Conn, error) {
	d, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}
	c, err := d.Dial("tcp", target)
	if err != nil {
		return nil, err
	}
	return NewConn(c), nil
}

// SOCKS5Available reports whether a SOCKS5 proxy answers at proxyAddr.
func SOCKS5Available(proxyAddr string) bool {
	c, err := net.DialTimeout("tcp", proxyAddr, 2*time.Second)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}
