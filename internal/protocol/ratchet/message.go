package ratchet

import "encoding/binary"

// headerLen is counter(8) + timestamp(8) + ciphertext length(4).
const headerLen = 20

// Message is one ratchet-encrypted frame. The counter orders messages within
// the sender's chain; the timestamp bounds the replay window. Neither field
// is secret, and the counter is implicitly authenticated because it selects
// the message key and nonce.
type Message struct {
	Counter    uint64
	Ciphertext []byte
	Timestamp  uint64
}

// Encode serializes to counter(8B LE) || timestamp(8B LE) ||
// ciphertext_len(4B LE) || ciphertext.
func (m Message) Encode() []byte {
	out := make([]byte, headerLen+len(m.Ciphertext))
	binary.LittleEndian.PutUint64(out[0:8], m.Counter)
	binary.LittleEndian.PutUint64(out[8:16], m.Timestamp)
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(m.Ciphertext)))
	copy(out[headerLen:], m.Ciphertext)
	return out
}

// Decode parses the wire form, rejecting truncated buffers.
func Decode(data []byte) (Message, error) {
	if len(data) < headerLen {
		return Message{}, ErrInvalidMessage
	}
	n := int(binary.LittleEndian.Uint32(data[16:20]))
	if len(data) < headerLen+n {
		return Message{}, ErrInvalidMessage
	}
	m := Message{
		Counter:    binary.LittleEndian.Uint64(data[0:8]),
		Timestamp:  binary.LittleEndian.Uint64(data[8:16]),
		Ciphertext: make([]byte, n),
	}
	copy(m.Ciphertext, data[headerLen:headerLen+n])
	return m, nil
}
