package crypto_test

import (
	"errors"
	"testing"

	"sae/internal/crypto"
)

func newHandshake(t *testing.T) (*crypto.Identity, *crypto.Handshake) {
	t.Helper()
	id, err := crypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	eph, err := crypto.GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral: %v", err)
	}
	return id, crypto.NewHandshake(eph.Public(), id)
}

func TestHandshakeVerify(t *testing.T) {
	id, hs := newHandshake(t)

	pub, err := hs.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	want := id.PublicKey()
	if string(pub) != string(want[:]) {
		t.Fatal("Verify returned a different key than the identity's")
	}

	fp, err := hs.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fp != id.Fingerprint() {
		t.Fatalf("handshake fingerprint %q != identity fingerprint %q", fp, id.Fingerprint())
	}
	if len(fp) != 32 {
		t.Fatalf("fingerprint is %d hex chars, want 32", len(fp))
	}
}

func TestHandshakeTamperDetection(t *testing.T) {
	_, hs := newHandshake(t)

	fields := []struct {
		name string
		buf  []byte
	}{
		{"x25519", hs.X25519Key},
		{"ed25519", hs.Ed25519Key},
		{"signature", hs.Signature},
	}
	for _, f := range fields {
		for i := range f.buf {
			f.buf[i] ^= 0x01
			if _, err := hs.Verify(); err == nil {
				t.Fatalf("Verify accepted a flipped byte %d in %s", i, f.name)
			}
			f.buf[i] ^= 0x01
		}
	}
	// Untouched again, must verify.
	if _, err := hs.Verify(); err != nil {
		t.Fatalf("Verify after restoring: %v", err)
	}
}

func TestHandshakeFieldLengths(t *testing.T) {
	_, hs := newHandshake(t)

	short := &crypto.Handshake{
		X25519Key:  hs.X25519Key[:31],
		Ed25519Key: hs.Ed25519Key,
		Signature:  hs.Signature,
	}
	if _, err := short.Verify(); !errors.Is(err, crypto.ErrInvalidPublicKey) {
		t.Fatalf("short X25519 key: want ErrInvalidPublicKey, got %v", err)
	}

	short = &crypto.Handshake{
		X25519Key:  hs.X25519Key,
		Ed25519Key: hs.Ed25519Key[:31],
		Signature:  hs.Signature,
	}
	if _, err := short.Verify(); !errors.Is(err, crypto.ErrInvalidPublicKey) {
		t.Fatalf("short Ed25519 key: want ErrInvalidPublicKey, got %v", err)
	}

	short = &crypto.Handshake{
		X25519Key:  hs.X25519Key,
		Ed25519Key: hs.Ed25519Key,
		Signature:  hs.Signature[:63],
	}
	if _, err := short.Verify(); !errors.Is(err, crypto.ErrInvalidSignature) {
		t.Fatalf("short signature: want ErrInvalidSignature, got %v", err)
	}
}

func TestHandshakeWireRoundTrip(t *testing.T) {
	_, hs := newHandshake(t)

	wire := hs.Encode()
	if len(wire) != crypto.HandshakeSize {
		t.Fatalf("encoded %d bytes, want %d", len(wire), crypto.HandshakeSize)
	}
	decoded, err := crypto.DecodeHandshake(wire)
	if err != nil {
		t.Fatalf("DecodeHandshake: %v", err)
	}
	if _, err := decoded.Verify(); err != nil {
		t.Fatalf("Verify decoded: %v", err)
	}

	if _, err := crypto.DecodeHandshake(wire[:crypto.HandshakeSize-1]); !errors.Is(err, crypto.ErrShortHandshake) {
		t.Fatalf("truncated: want ErrShortHandshake, got %v", err)
	}
	if _, err := crypto.DecodeHandshake(append(wire, 0)); !errors.Is(err, crypto.ErrShortHandshake) {
		t.Fatalf("oversized: want ErrShortHandshake, got %v", err)
	}
}

func TestFingerprintDistinct(t *testing.T) {
	a, err := crypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	b, err := crypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("two fresh identities share a fingerprint")
	}
	if a.Fingerprint() != a.Fingerprint() {
		t.Fatal("fingerprint not stable within a run")
	}
}
