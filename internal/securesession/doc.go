// Package securesession binds the handshake, ratchet, and padding codec into
// a session lifecycle over an opaque frame transport.
//
// The Manager runs the authenticated flow: signed ephemeral-key exchange,
// verification, shared-secret derivation, then per-message pad->encrypt and
// decrypt->unpad through a forward-secret ratchet. Basic is the legacy
// unauthenticated flow kept for plain ephemeral links: same key exchange but
// no identity binding and a single AEAD session, so it offers no protection
// against an active man in the middle.
//
// All operations are synchronous; the caller owns the receive loop and any
// cross-goroutine locking.
package securesession
