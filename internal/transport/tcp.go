package transport

import (
	"bufio"
	"net"
	"time"
)

// Conn frames a stream connection. Reads are buffered; writes go straight to
// the socket so a frame is flushed when WriteFrame returns.
type Conn struct {
	c  net.Conn
	br *bufio.Reader
}

// NewConn wraps an established stream connection.
func NewConn(c net.Conn) *Conn {
	return &Conn{c: c, br: bufio.NewReader(c)}
}

func (c *Conn) WriteFrame(p []byte) error  { return writeFrame(c.c, p) }
func (c *Conn) ReadFrame() ([]byte, error) { return readFrame(c.br) }
func (c *Conn) Close() error               { return c.c.Close() }
func (c *Conn) RemoteAddr() net.Addr       { return c.c.RemoteAddr() }

// Dial connects directly over TCP.
func Dial(addr string) (*Conn, error) {
	c, err := net.DialTimeout("tcp", addr, 30*time.Second)
	if err != nil {
		return nil, err
	}
	return NewConn(c), nil
}

// Listener accepts framed peer connections.
type Listener struct {
	l net.Listener
}

// Listen binds a TCP listener.
func Listen(addr string) (*Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{l: l}, nil
}

// Accept waits for the next peer.
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.l.Accept()
	if err != nil {
		return nil, err
	}
	return NewConn(c), nil
}

func (l *Listener) Addr() string { return l.l.Addr().String() }
func (l *Listener) Close() error { return l.l.Close() }
