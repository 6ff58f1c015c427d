package crypto

import (
	"crypto/ed25519"
	"errors"
)

const (
	// HandshakeSize is the exact wire size: X25519 key, Ed25519 key, signature.
	HandshakeSize = 32 + 32 + 64
)

var (
	ErrInvalidPublicKey = errors.New("crypto: invalid public key")
	ErrInvalidSignature = errors.New("crypto: invalid signature")
	ErrShortHandshake   = errors.New("crypto: truncated handshake")
)

// Handshake binds an ephemeral X25519 key to a long-term Ed25519 identity by
// signing the DH key. Verification proves the two keys were bundled by whoever
// holds the Ed25519 private key for this session; it does NOT prove the
// identity belongs to anyone in particular. First-contact MITM is only caught
// by the human comparing fingerprints out of band.
//
// Field sizes are load-bearing: Verify refuses anything that is not exactly
// 32/32/64 bytes, so any framing must preserve the raw lengths.
type Handshake struct {
	X25519Key  []byte
	Ed25519Key []byte
	Signature  []byte
}

// NewHandshake signs the ephemeral DH public key with the identity and
// bundles both public keys with the signature.
func NewHandshake(x25519Key [32]byte, id *Identity) *Handshake {
	idPub := id.PublicKey()
	return &Handshake{
		X25519Key:  x25519Key[:],
		Ed25519Key: idPub[:],
		Signature:  id.Sign(x25519Key[:]),
	}
}

// Verify checks field lengths and the Ed25519 signature over the X25519 key.
// On success it returns the peer's verifying key; no key material from the
// handshake may be trusted before this succeeds.
func (h *Handshake) Verify() (ed25519.PublicKey, error) {
	if len(h.X25519Key) != 32 || len(h.Ed25519Key) != 32 {
		return nil, ErrInvalidPublicKey
	}
	if len(h.Signature) != ed25519.SignatureSize {
		return nil, ErrInvalidSignature
	}
	pub := ed25519.PublicKey(h.Ed25519Key)
	if !ed25519.Verify(pub, h.X25519Key, h.Signature) {
		return nil, ErrInvalidSignature
	}
	return pub, nil
}

// PeerKey returns the embedded X25519 key as a fixed array.
func (h *Handshake) PeerKey() ([32]byte, error) {
	var out [32]byte
	if len(h.X25519Key) != 32 {
		return out, ErrInvalidPublicKey
	}
	copy(out[:], h.X25519Key)
	return out, nil
}

// Fingerprint returns the fingerprint of the embedded identity key.
func (h *Handshake) Fingerprint() (string, error) {
	if len(h.Ed25519Key) != 32 {
		return "", ErrInvalidPublicKey
	}
	return FingerprintEd25519(ed25519.PublicKey(h.Ed25519Key)), nil
}

// Encode serializes the handshake to its raw 128-byte wire form.
func (h *Handshake) Encode() []byte {
	out := make([]byte, 0, HandshakeSize)
	out = append(out, h.X25519Key...)
	out = append(out, h.Ed25519Key...)
	out = append(out, h.Signature...)
	return out
}

// DecodeHandshake parses the raw wire form. Only the total length is checked
// here; Verify re-checks each field.
func DecodeHandshake(data []byte) (*Handshake, error) {
	if len(data) != HandshakeSize {
		return nil, ErrShortHandshake
	}
	h := &Handshake{
		X25519Key:  make([]byte, 32),
		Ed25519Key: make([]byte, 32),
		Signature:  make([]byte, 64),
	}
	copy(h.X25519Key, data[:32])
	copy(h.Ed25519Key, data[32:64])
	copy(h.Signature, data[64:])
	return h, nil
}
