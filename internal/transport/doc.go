// Package transport carries opaque frames between two peers.
//
// The crypto core consumes only the FrameConn contract: an ordered, reliable
// byte-frame channel. The implementations here (TCP framing, a SOCKS5 dialer
// for Tor, an in-memory pair for tests) are plumbing; none of them see key
// material or plaintext.
package transport
