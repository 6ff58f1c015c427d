package transport

import "sync"

// MemConn is one end of an in-process frame channel. It exists for tests and
// behaves like a loss-free, ordered link.
type MemConn struct {
	in  <-chan []byte
	out chan<- []byte

	closed chan struct{}
	once   *sync.Once // shared: closing either end closes the link
}

// Pipe returns two connected in-memory frame conns.
func Pipe() (*MemConn, *MemConn) {
	ab := make(chan []byte, 64)
	ba := make(chan []byte, 64)
	closed := make(chan struct{})
	once := new(sync.Once)
	a := &MemConn{in: ba, out: ab, closed: closed, once: once}
	b := &MemConn{in: ab, out: ba, closed: closed, once: once}
	return a, b
}

func (m *MemConn) WriteFrame(p []byte) error {
	if len(p) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	// Check closure first: the out channel is buffered, so a bare select
	// could race a write past a close.
	select {
	case <-m.closed:
		return ErrClosed
	default:
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	select {
	case <-m.closed:
		return ErrClosed
	case m.out <- buf:
		return nil
	}
}

func (m *MemConn) ReadFrame() ([]byte, error) {
	select {
	case <-m.closed:
		// Drain anything already queued before reporting closure.
		select {
		case p := <-m.in:
			return p, nil
		default:
			return nil, ErrClosed
		}
	case p := <-m.in:
		return p, nil
	}
}

func (m *MemConn) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}
