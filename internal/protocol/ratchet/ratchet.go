package ratchet

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"sae/internal/util/memzero"
)

const (
	chainKeySize = 32

	// MaxSkip bounds both a single counter jump and the skipped-key cache.
	// The cap exists so a hostile peer cannot force unbounded key derivation
	// or memory growth with a huge counter.
	MaxSkip = 100

	// maxClockSkew tolerates sender clocks ahead of ours, in seconds.
	maxClockSkew = 60
	// maxMessageAge rejects messages older than this, in seconds.
	maxMessageAge = 300
)

// HKDF context labels. Fixed on both sides; the role swap in New is what
// makes the chains cross, not the labels.
var (
	infoSendChain = []byte("sae-ratchet-send")
	infoRecvChain = []byte("sae-ratchet-recv")
	infoChainStep = []byte("sae-ratchet-kdf")
)

var (
	ErrInvalidMessage         = errors.New("ratchet: invalid message format")
	ErrInvalidTimestamp       = errors.New("ratchet: timestamp too far in the future")
	ErrMessageTooOld          = errors.New("ratchet: message outside replay window")
	ErrMessageAlreadyReceived = errors.New("ratchet: message already received")
	ErrTooManySkippedMessages = errors.New("ratchet: too many skipped messages")
	ErrDecryptionFailed       = errors.New("ratchet: decryption failed")
)

// Role selects which derived chain a session treats as outgoing. The two ends
// of a link must use opposite roles or neither can decrypt the other.
type Role int

const (
	Initiator Role = iota
	Responder
)

type skippedKey struct {
	key     [chainKeySize]byte
	counter uint64
}

// Session is one direction-pair of forward-secret message chains. It owns its
// chain keys exclusively; see the package comment for concurrency rules.
type Session struct {
	sendChainKey [chainKeySize]byte
	recvChainKey [chainKeySize]byte
	sendCount    uint64
	recvCount    uint64
	skipped      []skippedKey
}

// New derives the send and receive chains from a 32-byte shared secret.
// The caller keeps ownership of sharedSecret and should zeroize it once the
// session exists.
func New(sharedSecret []byte, role Role) (*Session, error) {
	if len(sharedSecret) != chainKeySize {
		return nil, errors.New("ratchet: shared secret must be 32 bytes")
	}
	var a, b [chainKeySize]byte
	if err := expand(sharedSecret, infoSendChain, a[:]); err != nil {
		return nil, err
	}
	if err := expand(sharedSecret, infoRecvChain, b[:]); err != nil {
		return nil, err
	}

	s := &Session{}
	if role == Initiator {
		s.sendChainKey, s.recvChainKey = a, b
	} else {
		s.sendChainKey, s.recvChainKey = b, a
	}
	memzero.Zero(a[:])
	memzero.Zero(b[:])
	return s, nil
}

// Encrypt seals plaintext under a fresh message key and advances the send
// chain. The previous chain key is overwritten and cannot be recovered.
func (s *Session) Encrypt(plaintext []byte) (Message, error) {
	msgKey, nextChainKey := step(s.sendChainKey)

	ct, err := seal(msgKey, s.sendCount, plaintext)
	memzero.Zero(msgKey[:])
	if err != nil {
		memzero.Zero(nextChainKey[:])
		return Message{}, err
	}

	msg := Message{
		Counter:    s.sendCount,
		Ciphertext: ct,
		Timestamp:  uint64(time.Now().Unix()),
	}
	s.sendChainKey = nextChainKey
	s.sendCount++
	return msg, nil
}

// Decrypt opens a message, advancing the receive chain as needed. Messages
// ahead of the chain cache keys for the gap; messages behind it consume a
// cached key exactly once. An authentication failure leaves all chain state
// untouched.
func (s *Session) Decrypt(msg Message) ([]byte, error) {
	now := uint64(time.Now().Unix())
	if msg.Timestamp > now+maxClockSkew {
		return nil, ErrInvalidTimestamp
	}
	if now > msg.Timestamp+maxMessageAge {
		return nil, ErrMessageTooOld
	}

	switch {
	case msg.Counter == s.recvCount:
		msgKey, nextChainKey := step(s.recvChainKey)
		pt, err := open(msgKey, msg)
		memzero.Zero(msgKey[:])
		if err != nil {
			memzero.Zero(nextChainKey[:])
			return nil, ErrDecryptionFailed
		}
		s.recvChainKey = nextChainKey
		s.recvCount++
		return pt, nil

	case msg.Counter > s.recvCount:
		skip := msg.Counter - s.recvCount
		if skip > MaxSkip || len(s.skipped)+int(skip) > MaxSkip {
			return nil, ErrTooManySkippedMessages
		}

		// Derive the gap into a pending list first: nothing is committed
		// until the target message authenticates.
		pending := make([]skippedKey, 0, skip)
		chainKey := s.recvChainKey
		for c := s.recvCount; c < msg.Counter; c++ {
			msgKey, next := step(chainKey)
			pending = append(pending, skippedKey{key: msgKey, counter: c})
			chainKey = next
		}
		msgKey, nextChainKey := step(chainKey)
		pt, err := open(msgKey, msg)
		memzero.Zero(msgKey[:])
		memzero.Zero(chainKey[:])
		if err != nil {
			for i := range pending {
				memzero.Zero(pending[i].key[:])
			}
			memzero.Zero(nextChainKey[:])
			return nil, ErrDecryptionFailed
		}
		s.skipped = append(s.skipped, pending...)
		s.recvChainKey = nextChainKey
		s.recvCount = msg.Counter + 1
		return pt, nil

	default:
		for i := range s.skipped {
			if s.skipped[i].counter != msg.Counter {
				continue
			}
			pt, err := open(s.skipped[i].key, msg)
			if err != nil {
				return nil, ErrDecryptionFailed
			}
			memzero.Zero(s.skipped[i].key[:])
			s.skipped = append(s.skipped[:i], s.skipped[i+1:]...)
			return pt, nil
		}
		return nil, ErrMessageAlreadyReceived
	}
}

// Zero wipes both chains and every cached key. The session is unusable after.
func (s *Session) Zero() {
	memzero.Zero(s.sendChainKey[:])
	memzero.Zero(s.recvChainKey[:])
	for i := range s.skipped {
		memzero.Zero(s.skipped[i].key[:])
	}
	s.skipped = nil
}

// step derives (messageKey, nextChainKey) from a chain key. One-way: the
// chain key cannot be recomputed from either output.
func step(chainKey [chainKeySize]byte) (msgKey, nextChainKey [chainKeySize]byte) {
	r := hkdf.New(sha256.New, chainKey[:], nil, infoChainStep)
	_, _ = io.ReadFull(r, msgKey[:])
	_, _ = io.ReadFull(r, nextChainKey[:])
	return
}

func expand(secret, info, out []byte) error {
	r := hkdf.New(sha256.New, secret, nil, info)
	_, err := io.ReadFull(r, out)
	return err
}

func seal(key [chainKeySize]byte, counter uint64, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonceFor(counter), plaintext, nil), nil
}

func open(key [chainKeySize]byte, msg Message) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonceFor(msg.Counter), msg.Ciphertext, nil)
}

// nonceFor places the message counter LE in bytes 4..12 of a zero nonce.
// Unique per chain because every counter uses a distinct message key anyway.
func nonceFor(counter uint64) []byte {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	binary.LittleEndian.PutUint64(nonce[4:], counter)
	return nonce
}
