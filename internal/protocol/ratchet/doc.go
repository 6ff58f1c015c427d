// Package ratchet implements a symmetric two-chain key ratchet with
// per-message forward secrecy.
//
// Both peers derive the same pair of chains from the shared secret; the role
// passed to New decides which chain is outgoing. Every message key is the
// output of a one-way step over its chain, so a consumed chain key can never
// recompute a past message key. Out-of-order delivery is handled by caching
// skipped message keys up to a hard cap; each cached key decrypts exactly one
// message and a replayed counter is rejected.
//
// Concurrency: a Session is NOT safe for concurrent use. Callers must
// serialise access per link.
package ratchet
