package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"sae/internal/util/memzero"
)

// sessionInfo is the HKDF context label for deriving the session key.
const sessionInfo = "sae-hkdf-info"

var (
	ErrNonceExhausted     = errors.New("crypto: nonce counter exhausted for this session")
	ErrCiphertextTooShort = errors.New("crypto: ciphertext too short")
	ErrDecryptionFailed   = errors.New("crypto: decryption failed")
)

// AEADSession is a single-key ChaCha20-Poly1305 session with collision-free
// nonces: a per-session random 12-byte salt XORed with a monotonically
// increasing counter. The salt makes nonces unique even across two sessions
// that derived the same key (both directions of one shared secret, or a
// process restart). Counter exhaustion is fatal; the session stops encrypting.
//
// Not safe for concurrent use; the counter is exclusively owned state.
type AEADSession struct {
	aead    cipher.AEAD
	salt    [chacha20poly1305.NonceSize]byte
	counter uint64
}

// NewAEADSession derives the session key from a 32-byte shared secret with
// HKDF-SHA256 and draws a fresh random nonce salt. The caller keeps ownership
// of sharedSecret and should zeroize it once the session exists.
func NewAEADSession(sharedSecret []byte) (*AEADSession, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	r := hkdf.New(sha256.New, sharedSecret, nil, []byte(sessionInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	memzero.Zero(key)
	if err != nil {
		return nil, err
	}

	s := &AEADSession{aead: aead}
	if _, err := rand.Read(s.salt[:]); err != nil {
		return nil, err
	}
	return s, nil
}

// Encrypt seals plaintext and prepends the 12-byte nonce to the ciphertext.
func (s *AEADSession) Encrypt(plaintext []byte) ([]byte, error) {
	nonce, err := s.nextNonce()
	if err != nil {
		return nil, err
	}
	out := make([]byte, chacha20poly1305.NonceSize, chacha20poly1305.NonceSize+len(plaintext)+s.aead.Overhead())
	copy(out, nonce[:])
	return s.aead.Seal(out, nonce[:], plaintext, nil), nil
}

// Decrypt splits the leading nonce from data and authenticates the rest.
func (s *AEADSession) Decrypt(data []byte) ([]byte, error) {
	if len(data) < chacha20poly1305.NonceSize {
		return nil, ErrCiphertextTooShort
	}
	nonce, ct := data[:chacha20poly1305.NonceSize], data[chacha20poly1305.NonceSize:]
	pt, err := s.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return pt, nil
}

// nextNonce XORs the little-endian counter into bytes 4..12 of the salt.
// The final counter value is never used: the increment must succeed first.
func (s *AEADSession) nextNonce() ([chacha20poly1305.NonceSize]byte, error) {
	nonce := s.salt
	if s.counter == math.MaxUint64 {
		return nonce, ErrNonceExhausted
	}
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], s.counter)
	for i, b := range ctr {
		nonce[4+i] ^= b
	}
	s.counter++
	return nonce, nil
}
