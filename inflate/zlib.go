package inflate

import (
	"errors"
	"hash/adler32"
)

// ErrNotZlib is returned when the 2-byte zlib header fails its method or
// check-bits validation — the stream isn't zlib-wrapped DEFLATE at all, so
// there is no "bytes produced so far" to recover (RFC 1950 §2.2).
var ErrNotZlib = errors.New("inflate: not a valid zlib stream")

// Zlib decompresses an RFC 1950 zlib stream: 2-byte header, DEFLATE body,
// 4-byte big-endian Adler-32 trailer. A header that fails validation is a
// hard failure (there's nothing to decompress); a trailer checksum
// mismatch is recorded as a note only, since the pixel data it covers has
// already been produced by the time it's checked (spec §4.2).
func Zlib(data []byte) ([]byte, []string, error) {
	if len(data) < 2 {
		return nil, nil, ErrNotZlib
	}
	cmf := data[0]
	flg := data[1]
	method := cmf & 0x0f
	cinfo := cmf >> 4
	if method != 8 || cinfo > 7 {
		return nil, nil, ErrNotZlib
	}
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return nil, nil, ErrNotZlib
	}

	body := data[2:]
	trailerLen := 4
	if flg&0x20 != 0 { // FDICT present, not supported: skip the 4-byte dict id
		trailerLen += 4
		if len(body) < 4 {
			return nil, nil, ErrNotZlib
		}
		body = body[4:]
	}

	var deflateBody []byte
	if len(body) >= trailerLen {
		deflateBody = body[:len(body)-4]
	} else {
		deflateBody = body
	}

	out, notes := Inflate(deflateBody)

	if len(body) >= 4 {
		trailer := body[len(body)-4:]
		want := uint32(trailer[0])<<24 | uint32(trailer[1])<<16 | uint32(trailer[2])<<8 | uint32(trailer[3])
		got := adler32.Checksum(out)
		if want != got {
			notes = append(notes, "inflate: zlib Adler-32 checksum mismatch")
		}
	} else {
		notes = append(notes, "inflate: zlib stream missing Adler-32 trailer")
	}

	return out, notes, nil
}
