// Package padding hides plaintext lengths by rounding every payload up to a
// fixed bucket size and filling the tail with random bytes. An observer of
// the (encrypted) frames sees only which bucket a message fell into.
package padding
