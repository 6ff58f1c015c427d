package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/curve25519"

	"sae/internal/util/memzero"
)

var (
	ErrKeyConsumed = errors.New("crypto: ephemeral key already used")
	ErrLowOrderKey = errors.New("crypto: all-zero peer public key")
)

// EphemeralKey is a single-use X25519 key pair. The secret exists exactly
// until DiffieHellman consumes it; a second call fails. This makes key reuse
// a type error surfaced at runtime rather than a convention.
type EphemeralKey struct {
	priv [32]byte
	pub  [32]byte
	used bool
}

// GenerateEphemeral returns a fresh X25519 key pair.
// The private key is clamped per RFC 7748.
func GenerateEphemeral() (*EphemeralKey, error) {
	k := new(EphemeralKey)
	if _, err := rand.Read(k.priv[:]); err != nil {
		return nil, err
	}
	k.priv[0] &= 248
	k.priv[31] &= 127
	k.priv[31] |= 64

	pub, err := curve25519.X25519(k.priv[:], curve25519.Basepoint)
	if err != nil {
		memzero.Zero(k.priv[:])
		return nil, err
	}
	copy(k.pub[:], pub)
	return k, nil
}

// Public returns the public half; safe to share before the handshake.
func (k *EphemeralKey) Public() [32]byte { return k.pub }

// DiffieHellman consumes the secret: it computes the 32-byte shared secret
// with the peer's public key, wipes the private key, and marks the pair used.
// The returned bytes seed a ratchet or AEAD session and must be zeroized by
// the caller once consumed.
func (k *EphemeralKey) DiffieHellman(peer [32]byte) ([]byte, error) {
	if k.used {
		return nil, ErrKeyConsumed
	}
	var zero [32]byte
	if peer == zero {
		return nil, ErrLowOrderKey
	}
	shared, err := curve25519.X25519(k.priv[:], peer[:])
	memzero.Zero(k.priv[:])
	k.used = true
	if err != nil {
		return nil, err
	}
	return shared, nil
}

// Zero discards an unused key pair, wiping the secret.
func (k *EphemeralKey) Zero() {
	memzero.Zero(k.priv[:])
	k.used = true
}
