package securesession

import (
	"errors"
	"fmt"

	"sae/internal/crypto"
	"sae/internal/protocol/padding"
	"sae/internal/transport"
	"sae/internal/util/memzero"
)

var errBadKeyFrame = errors.New("securesession: malformed key-exchange frame")

// Basic is the unauthenticated session mode: a bare ephemeral X25519 exchange
// feeding a single AEAD session, no identity binding and no per-message
// ratchet. It hides traffic from passive observers only; an active man in the
// middle can silently substitute keys. Kept for links where both ends accept
// that trade (the authenticated Manager is the default).
type Basic struct {
	conn    transport.FrameConn
	session *crypto.AEADSession
}

// EstablishBasicHost exchanges raw public keys, sending first.
func EstablishBasicHost(conn transport.FrameConn) (*Basic, error) {
	eph, err := crypto.GenerateEphemeral()
	if err != nil {
		return nil, err
	}
	pub := eph.Public()
	if err := conn.WriteFrame(pub[:]); err != nil {
		eph.Zero()
		return nil, fmt.Errorf("securesession: sending public key: %w", err)
	}
	peer, err := readPublicKey(conn)
	if err != nil {
		eph.Zero()
		return nil, err
	}
	return finishBasic(conn, eph, peer)
}

// EstablishBasicClient exchanges raw public keys, receiving first.
func EstablishBasicClient(conn transport.FrameConn) (*Basic, error) {
	peer, err := readPublicKey(conn)
	if err != nil {
		return nil, err
	}
	eph, err := crypto.GenerateEphemeral()
	if err != nil {
		return nil, err
	}
	pub := eph.Public()
	if err := conn.WriteFrame(pub[:]); err != nil {
		eph.Zero()
		return nil, fmt.Errorf("securesession: sending public key: %w", err)
	}
	return finishBasic(conn, eph, peer)
}

func readPublicKey(conn transport.FrameConn) ([32]byte, error) {
	var out [32]byte
	frame, err := conn.ReadFrame()
	if err != nil {
		return out, fmt.Errorf("securesession: receiving public key: %w", err)
	}
	if len(frame) != 32 {
		return out, errBadKeyFrame
	}
	copy(out[:], frame)
	return out, nil
}

func finishBasic(conn transport.FrameConn, eph *crypto.EphemeralKey, peer [32]byte) (*Basic, error) {
	shared, err := eph.DiffieHellman(peer)
	if err != nil {
		return nil, err
	}
	session, err := crypto.NewAEADSession(shared)
	memzero.Zero(shared)
	if err != nil {
		return nil, err
	}
	return &Basic{conn: conn, session: session}, nil
}

// Send pads and encrypts one payload.
func (b *Basic) Send(plaintext []byte) error {
	padded, err := padding.Pad(plaintext)
	if err != nil {
		return err
	}
	ct, err := b.session.Encrypt(padded)
	memzero.Zero(padded)
	if err != nil {
		return err
	}
	return b.conn.WriteFrame(ct)
}

// Receive blocks for the next frame, decrypts, and unpads.
func (b *Basic) Receive() ([]byte, error) {
	frame, err := b.conn.ReadFrame()
	if err != nil {
		return nil, err
	}
	padded, err := b.session.Decrypt(frame)
	if err != nil {
		return nil, err
	}
	pt, err := padding.Unpad(padded)
	memzero.Zero(padded)
	if err != nil {
		return nil, err
	}
	return pt, nil
}

// Close shuts the transport down.
func (b *Basic) Close() error { return b.conn.Close() }
