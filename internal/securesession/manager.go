package securesession

import (
	"errors"
	"fmt"

	"gopkg.in/op/go-logging.v1"

	"sae/internal/crypto"
	"sae/internal/log"
	"sae/internal/protocol/padding"
	"sae/internal/protocol/ratchet"
	"sae/internal/transport"
	"sae/internal/util/memzero"
)

var (
	// ErrAuthenticationFailed marks a cryptographic handshake failure: a bad
	// signature or malformed key material, i.e. a possible active attack.
	// Deliberately distinct from plain transport errors so callers can warn
	// the user instead of retrying.
	ErrAuthenticationFailed = errors.New("securesession: peer authentication failed")
	ErrNotEstablished       = errors.New("securesession: session not established")
)

// Manager owns one authenticated, forward-secret session over a frame
// transport. It holds the only references to the active ratchet and the
// local identity for this connection; it is not safe for concurrent use
// without external locking.
type Manager struct {
	identity *crypto.Identity
	conn     transport.FrameConn
	log      *logging.Logger

	ratchet         *ratchet.Session
	peerFingerprint string
}

// NewManager wires an identity and an open connection. The handshake has not
// run yet; call EstablishHost or EstablishClient next.
func NewManager(id *crypto.Identity, conn transport.FrameConn, backend *log.Backend) *Manager {
	return &Manager{
		identity: id,
		conn:     conn,
		log:      backend.GetLogger("securesession"),
	}
}

// EstablishHost runs the host side of the handshake: send our signed
// ephemeral key, then receive and verify the peer's.
func (m *Manager) EstablishHost() error {
	eph, err := crypto.GenerateEphemeral()
	if err != nil {
		return err
	}

	hs := crypto.NewHandshake(eph.Public(), m.identity)
	if err := m.conn.WriteFrame(hs.Encode()); err != nil {
		m.teardown(eph)
		return fmt.Errorf("securesession: sending handshake: %w", err)
	}
	peerHS, err := m.readHandshake()
	if err != nil {
		m.teardown(eph)
		return err
	}
	return m.finish(eph, peerHS, ratchet.Initiator)
}

// EstablishClient runs the client side: receive and verify the host's
// handshake first, then send our own.
func (m *Manager) EstablishClient() error {
	peerHS, err := m.readHandshake()
	if err != nil {
		m.teardown(nil)
		return err
	}

	eph, err := crypto.GenerateEphemeral()
	if err != nil {
		return err
	}
	hs := crypto.NewHandshake(eph.Public(), m.identity)
	if err := m.conn.WriteFrame(hs.Encode()); err != nil {
		m.teardown(eph)
		return fmt.Errorf("securesession: sending handshake: %w", err)
	}
	return m.finish(eph, peerHS, ratchet.Responder)
}

func (m *Manager) readHandshake() (*crypto.Handshake, error) {
	frame, err := m.conn.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("securesession: receiving handshake: %w", err)
	}
	peerHS, err := crypto.DecodeHandshake(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	return peerHS, nil
}

// finish verifies the peer handshake, derives the shared secret, and builds
// the ratchet. On any failure every partial secret is zeroized.
func (m *Manager) finish(eph *crypto.EphemeralKey, peerHS *crypto.Handshake, role ratchet.Role) error {
	if _, err := peerHS.Verify(); err != nil {
		m.log.Warningf("handshake signature rejected: %v", err)
		m.teardown(eph)
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	fp, err := peerHS.Fingerprint()
	if err != nil {
		m.teardown(eph)
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	peerKey, err := peerHS.PeerKey()
	if err != nil {
		m.teardown(eph)
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	shared, err := eph.DiffieHellman(peerKey)
	if err != nil {
		m.teardown(eph)
		return err
	}
	rs, err := ratchet.New(shared, role)
	memzero.Zero(shared)
	if err != nil {
		m.teardown(eph)
		return err
	}

	m.ratchet = rs
	m.peerFingerprint = fp
	m.log.Noticef("session established, peer fingerprint %s", fp)
	return nil
}

// PeerFingerprint is the verified peer identity fingerprint, surfaced so a
// human can compare it out of band. Empty before the handshake completes.
func (m *Manager) PeerFingerprint() string { return m.peerFingerprint }

// LocalFingerprint is our own identity fingerprint.
func (m *Manager) LocalFingerprint() string { return m.identity.Fingerprint() }

// Send pads, encrypts, and frames one application payload.
func (m *Manager) Send(plaintext []byte) error {
	if m.ratchet == nil {
		return ErrNotEstablished
	}
	padded, err := padding.Pad(plaintext)
	if err != nil {
		return err
	}
	msg, err := m.ratchet.Encrypt(padded)
	memzero.Zero(padded)
	if err != nil {
		return err
	}
	return m.conn.WriteFrame(msg.Encode())
}

// Receive blocks for the next frame, then decrypts and unpads it. Replayed or
// tampered messages return their ratchet error without killing the session;
// the caller decides whether to keep reading.
func (m *Manager) Receive() ([]byte, error) {
	if m.ratchet == nil {
		return nil, ErrNotEstablished
	}
	frame, err := m.conn.ReadFrame()
	if err != nil {
		return nil, err
	}
	msg, err := ratchet.Decode(frame)
	if err != nil {
		return nil, err
	}
	padded, err := m.ratchet.Decrypt(msg)
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

// Close zeroizes session state and closes the transport.
func (m *Manager) Close() error {
	if m.ratchet != nil {
		m.ratchet.Zero()
		m.ratchet = nil
	}
	return m.conn.Close()
}

// teardown discards partial handshake state: the connection is closed and any
// unconsumed ephemeral secret wiped. Nothing secret survives a failed
// handshake.
func (m *Manager) teardown(eph *crypto.EphemeralKey) {
	if eph != nil {
		eph.Zero()
	}
	if m.ratchet != nil {
		m.ratchet.Zero()
		m.ratchet = nil
	}
	_ = m.conn.Close()
}
