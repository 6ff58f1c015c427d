package padding

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
)

// buckets are the fixed padded sizes, ascending. Payloads that do not fit the
// largest bucket are rounded up to the next multiple of the largest.
var buckets = []int{128, 256, 512, 1024, 2048, 4096}

const (
	// prefixLen is the u16 length prefix carrying the original size.
	prefixLen = 2
	// MaxPayload is the largest payload the u16 prefix can describe.
	MaxPayload = 65535
)

var (
	ErrPayloadTooLarge = errors.New("padding: payload exceeds 65535 bytes")
	ErrInvalidPadding  = errors.New("padding: invalid padded buffer")
)

// Pad emits original_len(u16 LE) || data || random filler, sized to the
// smallest bucket that fits, or the next 4096 multiple beyond the last bucket.
func Pad(data []byte) ([]byte, error) {
	if len(data) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	need := len(data) + prefixLen

	size := 0
	for _, b := range buckets {
		if b >= need {
			size = b
			break
		}
	}
	if size == 0 {
		const block = 4096
		size = (need + block - 1) / block * block
	}

	out := make([]byte, size)
	binary.LittleEndian.PutUint16(out[:prefixLen], uint16(len(data)))
	copy(out[prefixLen:], data)
	if _, err := rand.Read(out[prefixLen+len(data):]); err != nil {
		return nil, err
	}
	return out, nil
}

// Unpad reads the length prefix and returns exactly that many payload bytes,
// discarding the filler.
func Unpad(padded []byte) ([]byte, error) {
	if len(padded) < prefixLen {
		return nil, ErrInvalidPadding
	}
	n := int(binary.LittleEndian.Uint16(padded[:prefixLen]))
	if n+prefixLen > len(padded) {
		return nil, ErrInvalidPadding
	}
	out := make([]byte, n)
	copy(out, padded[prefixLen:prefixLen+n])
	return out, nil
}
