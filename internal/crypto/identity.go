package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"sae/internal/util/memzero"
)

// fingerprintBytes is how much of the SHA-256 digest ends up in a
// fingerprint: 128 bits is short enough to read aloud over a call.
const fingerprintBytes = 16

// Identity is the long-term signing key for one process run. It is generated
// fresh on every start and never persisted; peers authenticate it out of band
// by comparing fingerprints.
type Identity struct {
	signing   ed25519.PrivateKey
	verifying ed25519.PublicKey
}

// GenerateIdentity creates a fresh Ed25519 identity from the system CSPRNG.
func GenerateIdentity() (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Identity{signing: priv, verifying: pub}, nil
}

// Sign signs msg with the identity's private key.
func (id *Identity) Sign(msg []byte) []byte {
	return ed25519.Sign(id.signing, msg)
}

// PublicKey returns the 32-byte Ed25519 verifying key.
func (id *Identity) PublicKey() [32]byte {
	var pub [32]byte
	copy(pub[:], id.verifying)
	return pub
}

// Fingerprint returns the identity's fingerprint: hex of the first 16 bytes
// of SHA-256 over the verifying key. Stable for the process lifetime.
func (id *Identity) Fingerprint() string {
	return FingerprintEd25519(id.verifying)
}

// Zero wipes the signing key. The identity must not be used afterwards.
func (id *Identity) Zero() {
	memzero.Zero(id.signing)
	id.signing = nil
}

// FingerprintEd25519 fingerprints an arbitrary Ed25519 public key.
func FingerprintEd25519(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return hex.EncodeToString(sum[:fingerprintBytes])
}
