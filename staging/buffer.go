// Package staging implements the fixed-size exchange region shared by a host
// and an animation module, and the compact binary layout written into it.
//
// Layout: little-endian fixed-width numbers in declaration order, enum
// variants as an u32 tag followed by the payload, strings and lists as an u64
// element count followed by the elements. There is no schema and no
// versioning: both sides must be built from the same struct definitions.
package staging

import (
	"github.com/pkg/errors"
)

const BUFFER_SIZE = 2048

var (
	ErrOutOfBounds = errors.New("staging buffer out of memory bounds")
	ErrOverflow    = errors.New("staging buffer overflow")
	ErrShortBuffer = errors.New("staging buffer too short for value")
	ErrMismatch    = errors.New("staging buffer content mismatch")
)

type Marshaler interface {
	MarshalStaging(w *Writer)
}

type Unmarshaler interface {
	UnmarshalStaging(r *Reader)
}

// View returns the staging region located at ptr inside memory.
// The slice aliases memory; it is valid until the next call into the owner.
func View(memory []byte, ptr uint32) ([]byte, error) {
	end := uint64(ptr) + BUFFER_SIZE
	if end > uint64(len(memory)) {
		return nil, errors.Wrapf(ErrOutOfBounds, "ptr 0x%x, memory size 0x%x", ptr, len(memory))
	}
	return memory[ptr:end:end], nil
}

// Encode writes m at the start of buf and returns the number of bytes used
func Encode(buf []byte, m Marshaler) (int, error) {
	if len(buf) > BUFFER_SIZE {
		buf = buf[:BUFFER_SIZE]
	}
	w := NewWriter(buf)
	m.MarshalStaging(w)
	if err := w.Err(); err != nil {
		return w.Len(), errors.Wrapf(err, "encoding %T", m)
	}
	return w.Len(), nil
}

// Decode fills u from the start of buf. Trailing bytes are ignored,
// the region keeps whatever earlier calls left there.
func Decode(buf []byte, u Unmarshaler) error {
	if len(buf) > BUFFER_SIZE {
		buf = buf[:BUFFER_SIZE]
	}
	r := NewReader(buf)
	u.UnmarshalStaging(r)
	if err := r.Err(); err != nil {
		return errors.Wrapf(err, "decoding %T at offset %d", u, r.Offset())
	}
	return nil
}

// Size reports the encoded size of m without a destination buffer
func Size(m Marshaler) int {
	w := &Writer{counting: true}
	m.MarshalStaging(w)
	return w.Len()
}
