package transport_test

import (
	"bytes"
	"errors"
	"testing"

	"sae/internal/transport"
)

func TestTCPFrameRoundTrip(t *testing.T) {
	l, err := transport.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer l.Close()

	type accepted struct {
		conn *transport.Conn
		err  error
	}
	acceptCh := make(chan accepted, 1)
	go func() {
		c, err := l.Accept()
		acceptCh <- accepted{c, err}
	}()

	client, err := transport.Dial(l.Addr())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	got := <-acceptCh
	if got.err != nil {
		t.Fatalf("Accept: %v", got.err)
	}
	server := got.conn
	defer server.Close()

	frames := [][]byte{
		{},
		[]byte("one"),
		bytes.Repeat([]byte{0xAA}, 70000), // bigger than one padded bucket
	}
	for i, f := range frames {
		if err := client.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame #%d: %v", i, err)
		}
		r, err := server.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame #%d: %v", i, err)
		}
		if !bytes.Equal(r, f) {
			t.Fatalf("frame #%d mismatch: %d bytes vs %d", i, len(r), len(f))
		}
	}
}

func TestFrameTooLarge(t *testing.T) {
	a, _ := transport.Pipe()
	if err := a.WriteFrame(make([]byte, transport.MaxFrameSize+1)); !errors.Is(err, transport.ErrFrameTooLarge) {
		t.Fatalf("want ErrFrameTooLarge, got %v", err)
	}
}

func TestMemPipe(t *testing.T) {
	a, b := transport.Pipe()
	if err := a.WriteFrame([]byte("ping")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	f, err := b.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if string(f) != "ping" {
		t.Fatalf("got %q", f)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.WriteFrame([]byte("after close")); !errors.Is(err, transport.ErrClosed) {
		t.Fatalf("write after close: want ErrClosed, got %v", err)
	}
	if _, err := a.ReadFrame(); !errors.Is(err, transport.ErrClosed) {
		t.Fatalf("read after close: want ErrClosed, got %v", err)
	}
}

func TestParseInvite(t *testing.T) {
	addr, err := transport.ParseInvite("sae://192.0.2.7:4777")
	if err != nil {
		t.Fatalf("ParseInvite: %v", err)
	}
	if addr != "192.0.2.7:4777" {
		t.Fatalf("got %q", addr)
	}

	for _, bad := range []string{"http://x:1", "sae://", "sae://hostonly", "::::"} {
		if _, err := transport.ParseInvite(bad); err == nil {
			t.Fatalf("ParseInvite(%q) accepted", bad)
		}
	}
}
