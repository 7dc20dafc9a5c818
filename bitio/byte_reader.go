// Package bitio provides the byte and bit cursors shared by every format
// decoder: a little/big-endian byte reader with bounded advance and seek,
// and a JPEG-flavored MSB-first bit reader layered on top of it. It
// generalizes the inline offset/byte-stuffing bookkeeping the teacher
// (jrm-1535/jpeg) kept private to its entropy-decode loop (analyse.go's
// processECS) into a reusable pair of cursors so GIF, BMP and TIFF's plain
// byte reads share the same EOF discipline as JPEG's bit reads.
package bitio

import "errors"

// ErrUnexpectedEOF is returned by every ByteReader read that runs past the
// end of the buffer.
var ErrUnexpectedEOF = errors.New("bitio: unexpected EOF")

// ByteReader is a cursor over an in-memory buffer. It never copies the
// buffer; all reads return views or values derived directly from it.
type ByteReader struct {
	data []byte
	pos  int
}

// NewByteReader wraps data for sequential reading starting at offset 0.
func NewByteReader(data []byte) *ByteReader {
	return &ByteReader{data: data}
}

// Len returns the total buffer length.
func (r *ByteReader) Len() int { return len(r.data) }

// Position returns the current absolute offset.
func (r *ByteReader) Position() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *ByteReader) Remaining() int { return len(r.data) - r.pos }

// Seek moves the cursor to an absolute offset. An out-of-range offset is
// clamped to [0, Len()] rather than failing: callers that seek past a
// truncated segment simply find Remaining() == 0 and EOF on the next read.
func (r *ByteReader) Seek(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(r.data) {
		offset = len(r.data)
	}
	r.pos = offset
}

// Skip advances the cursor by n bytes, failing if that runs past the end.
func (r *ByteReader) Skip(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

// ReadExact returns the next n bytes as a sub-slice of the original buffer.
func (r *ByteReader) ReadExact(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Peek returns the next n bytes without advancing the cursor. It returns as
// many bytes as are available (possibly fewer than n) without error, since
// callers use Peek for magic-number sniffing where a short buffer is normal.
func (r *ByteReader) Peek(n int) []byte {
	end := r.pos + n
	if end > len(r.data) {
		end = len(r.data)
	}
	return r.data[r.pos:end]
}

func (r *ByteReader) ReadU8() (uint8, error) {
	if r.pos+1 > len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *ByteReader) ReadU16BE() (uint16, error) {
	b, err := r.ReadExact(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (r *ByteReader) ReadU16LE() (uint16, error) {
	b, err := r.ReadExact(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[1])<<8 | uint16(b[0]), nil
}

func (r *ByteReader) ReadU32BE() (uint32, error) {
	b, err := r.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (r *ByteReader) ReadU32LE() (uint32, error) {
	b, err := r.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}
