package staging

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Writer appends values to a bounded buffer. The first failure sticks,
// later writes are dropped, check Err once at the end.
type Writer struct {
	buf      []byte
	off      int
	err      error
	counting bool
}

func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

func (w *Writer) Err() error { return w.err }
func (w *Writer) Len() int   { return w.off }

func (w *Writer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	if w.counting {
		w.off += n
		return nil
	}
	if w.off+n > len(w.buf) {
		w.err = errors.Wrapf(ErrOverflow, "need %d bytes at offset %d, capacity %d", n, w.off, len(w.buf))
		return nil
	}
	b := w.buf[w.off : w.off+n]
	w.off += n
	return b
}

func (w *Writer) U32(v uint32) {
	if b := w.reserve(4); b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
}

func (w *Writer) U64(v uint64) {
	if b := w.reserve(8); b != nil {
		binary.LittleEndian.PutUint64(b, v)
	}
}

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

func (w *Writer) F32s(vs ...float32) {
	for _, v := range vs {
		w.F32(v)
	}
}

// Enum variant discriminant
func (w *Writer) Tag(v uint32) { w.U32(v) }

// Element count prefix of a list
func (w *Writer) Len64(n int) { w.U64(uint64(n)) }

func (w *Writer) String(s string) {
	if w.err == nil && !utf8.ValidString(s) {
		w.err = errors.Wrapf(ErrMismatch, "string %q is not utf-8", s)
		return
	}
	w.Len64(len(s))
	if b := w.reserve(len(s)); b != nil {
		copy(b, s)
	}
}

// Reader consumes values from a buffer with the same sticky error rule as Writer
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) Err() error  { return r.err }
func (r *Reader) Offset() int { return r.off }

func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Fail marks the stream as mismatched; used by unmarshalers on bad tags
func (r *Reader) Fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = errors.Wrapf(ErrMismatch, format, args...)
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.buf) {
		r.err = errors.Wrapf(ErrShortBuffer, "need %d bytes at offset %d, have %d", n, r.off, len(r.buf)-r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) U32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *Reader) U64() uint64 {
	if b := r.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *Reader) F32() float32 { return math.Float32frombits(r.U32()) }
func (r *Reader) F64() float64 { return math.Float64frombits(r.U64()) }

func (r *Reader) F32s(dst ...*float32) {
	for _, d := range dst {
		*d = r.F32()
	}
}

func (r *Reader) Tag() uint32 { return r.U32() }

// Len64 reads a list or string length. Each element takes at least
// minElemSize bytes, a count that cannot fit the rest of the buffer is stale
// or foreign data.
func (r *Reader) Len64(minElemSize int) int {
	n := r.U64()
	if r.err != nil {
		return 0
	}
	if minElemSize < 1 {
		minElemSize = 1
	}
	if n > uint64(r.Remaining()/minElemSize) {
		r.Fail("length %d at offset %d exceeds remaining %d bytes", n, r.off-8, r.Remaining())
		return 0
	}
	return int(n)
}

func (r *Reader) String() string {
	n := r.Len64(1)
	b := r.take(n)
	if b == nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.Fail("string at offset %d is not utf-8", r.off-n)
		return ""
	}
	return string(b)
}
