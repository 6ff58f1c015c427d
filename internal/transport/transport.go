package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/url"
)

// MaxFrameSize limits a single frame payload. Large enough for the biggest
// padded+encrypted message, small enough to stop a hostile peer allocating
// unbounded buffers.
const MaxFrameSize = 1 << 20

var (
	ErrFrameTooLarge = errors.New("transport: frame too large")
	ErrClosed        = errors.New("transport: connection closed")
)

// FrameConn is the ordered, reliable byte-frame channel the session manager
// runs over. ReadFrame blocks until a whole frame arrives or the connection
// dies. Implementations deliver frames intact and in order.
type FrameConn interface {
	WriteFrame(p []byte) error
	ReadFrame() ([]byte, error)
	Close() error
}

// writeFrame emits length(4B BE) || payload.
func writeFrame(w io.Writer, p []byte) error {
	if len(p) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(p)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(p)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	p := make([]byte, n)
	if _, err := io.ReadFull(r, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseInvite extracts the dial address from an sae://host:port invite URI.
func ParseInvite(invite string) (string, error) {
	u, err := url.Parse(invite)
	if err != nil {
		return "", fmt.Errorf("transport: invalid invite URI: %w", err)
	}
	if u.Scheme != "sae" {
		return "", fmt.Errorf("transport: invite scheme %q, want sae", u.Scheme)
	}
	if u.Hostname() == "" || u.Port() == "" {
		return "", errors.New("transport: invite missing host or port")
	}
	return u.Host, nil
}

// Invite builds the invite URI for a listen address.
func Invite(addr string) string {
	return "sae://" + addr
}
