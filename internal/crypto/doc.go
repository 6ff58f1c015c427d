// Package crypto holds the key material primitives for a session: the
// ephemeral Ed25519 identity, the signed key-exchange handshake, one-shot
// X25519 key pairs, and the counter-nonce AEAD session.
//
// Nothing in this package touches the network or the disk. Secret values are
// zeroized when consumed or released; callers own the lifetime of everything
// returned here.
package crypto
