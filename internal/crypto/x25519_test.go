package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"sae/internal/crypto"
)

func TestDiffieHellmanAgreement(t *testing.T) {
	a, err := crypto.GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral: %v", err)
	}
	b, err := crypto.GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral: %v", err)
	}

	sharedA, err := a.DiffieHellman(b.Public())
	if err != nil {
		t.Fatalf("a.DiffieHellman: %v", err)
	}
	sharedB, err := b.DiffieHellman(a.Public())
	if err != nil {
		t.Fatalf("b.DiffieHellman: %v", err)
	}
	if !bytes.Equal(sharedA, sharedB) {
		t.Fatal("shared secrets differ")
	}
	if len(sharedA) != 32 {
		t.Fatalf("shared secret is %d bytes, want 32", len(sharedA))
	}
}

func TestEphemeralKeySingleUse(t *testing.T) {
	a, err := crypto.GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral: %v", err)
	}
	b, err := crypto.GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral: %v", err)
	}

	if _, err := a.DiffieHellman(b.Public()); err != nil {
		t.Fatalf("first DiffieHellman: %v", err)
	}
	if _, err := a.DiffieHellman(b.Public()); !errors.Is(err, crypto.ErrKeyConsumed) {
		t.Fatalf("second DiffieHellman: want ErrKeyConsumed, got %v", err)
	}
}

func TestEphemeralKeyZeroDiscards(t *testing.T) {
	a, err := crypto.GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral: %v", err)
	}
	a.Zero()
	if _, err := a.DiffieHellman([32]byte{1}); !errors.Is(err, crypto.ErrKeyConsumed) {
		t.Fatalf("after Zero: want ErrKeyConsumed, got %v", err)
	}
}

func TestDiffieHellmanRejectsZeroKey(t *testing.T) {
	a, err := crypto.GenerateEphemeral()
	if err != nil {
		t.Fatalf("GenerateEphemeral: %v", err)
	}
	if _, err := a.DiffieHellman([32]byte{}); !errors.Is(err, crypto.ErrLowOrderKey) {
		t.Fatalf("want ErrLowOrderKey, got %v", err)
	}
}
