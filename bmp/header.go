// Package bmp decodes Windows/OS2 BMP images: BITMAPFILEHEADER plus any of
// the DIB header layouts (core, INFO, V2/V3/V4/V5), palette, uncompressed or
// RLE4/RLE8-compressed pixel data, and generic BI_BITFIELDS channel masks —
// with the same best-effort recovery policy as the rest of Vexel.
package bmp

import (
	"github.com/vexeldecode/vexel/bitio"
)

// Compression values from the BITMAPINFOHEADER biCompression field.
const (
	compRGB            = 0
	compRLE8           = 1
	compRLE4           = 2
	compBitfields      = 3
	compJPEG           = 4
	compPNG            = 5
	compAlphaBitfields = 6
)

// header holds every field this decoder needs, normalized across the core
// (12-byte) and INFO/V2/V3/V4/V5 (40..124-byte) DIB header layouts.
type header struct {
	dataOffset  int
	dibSize     int
	width       int
	height      int // always positive; topDown records the sign
	topDown     bool
	planes      int
	bitCount    int
	compression int
	imageSize   int
	colorsUsed  int

	// rMask/gMask/bMask/aMask are only meaningful for bitCount 16/32 with
	// compression compBitfields/compAlphaBitfields. aMask == 0 means "no
	// alpha channel", not "fully transparent".
	rMask, gMask, bMask, aMask uint32
}

func parseHeader(data []byte) (*header, []string) {
	var notes []string
	br := bitio.NewByteReader(data)

	sig, err := br.ReadExact(2)
	if err != nil || sig[0] != 'B' || sig[1] != 'M' {
		return nil, append(notes, "bmp: missing BM signature")
	}
	if err := br.Skip(4 + 2 + 2); err != nil { // file size, reserved x2
		return nil, append(notes, "bmp: file header truncated")
	}
	dataOffset, err := br.ReadU32LE()
	if err != nil {
		return nil, append(notes, "bmp: file header truncated")
	}

	dibSizeRaw, err := br.ReadU32LE()
	if err != nil {
		return nil, append(notes, "bmp: missing DIB header")
	}
	dibSize := int(dibSizeRaw)
	body, err := br.ReadExact(dibSize - 4)
	if err != nil {
		return nil, append(notes, "bmp: DIB header truncated")
	}

	h := &header{dataOffset: int(dataOffset), dibSize: dibSize, planes: 1, compression: compRGB}

	if dibSize == 12 {
		// BITMAPCOREHEADER: 16-bit width/height, no compression field.
		if len(body) < 8 {
			return nil, append(notes, "bmp: core header truncated")
		}
		h.width = int(int16(u16le(body[0:2])))
		h.height = int(int16(u16le(body[2:4])))
		h.planes = int(u16le(body[4:6]))
		h.bitCount = int(u16le(body[6:8]))
	} else {
		if len(body) < 36 {
			return nil, append(notes, "bmp: DIB header shorter than BITMAPINFOHEADER")
		}
		h.width = int(int32(u32le(body[0:4])))
		rawHeight := int32(u32le(body[4:8]))
		h.height = int(rawHeight)
		h.planes = int(u16le(body[8:10]))
		h.bitCount = int(u16le(body[10:12]))
		h.compression = int(u32le(body[12:16]))
		h.imageSize = int(u32le(body[16:20]))
		h.colorsUsed = int(u32le(body[28:32]))

		if dibSize >= 52 && len(body) >= 48 {
			h.rMask = u32le(body[36:40])
			h.gMask = u32le(body[40:44])
			h.bMask = u32le(body[44:48])
		}
		if dibSize >= 56 && len(body) >= 52 {
			h.aMask = u32le(body[48:52])
		}
	}

	if h.height < 0 {
		h.topDown = true
		h.height = -h.height
	}

	// Old-style BITFIELDS: a 40-byte BITMAPINFOHEADER with compression
	// BI_BITFIELDS/BI_ALPHABITFIELDS is followed by 3 (or 4) explicit DWORD
	// masks before the palette, rather than carrying them in the header.
	if dibSize == 40 && (h.compression == compBitfields || h.compression == compAlphaBitfields) {
		n := 3
		if h.compression == compAlphaBitfields {
			n = 4
		}
		maskBytes, err := br.ReadExact(n * 4)
		if err != nil {
			notes = append(notes, "bmp: BITFIELDS masks truncated")
		} else {
			h.rMask = u32le(maskBytes[0:4])
			h.gMask = u32le(maskBytes[4:8])
			h.bMask = u32le(maskBytes[8:12])
			if n == 4 {
				h.aMask = u32le(maskBytes[12:16])
			}
		}
	}

	if h.width <= 0 || h.height <= 0 {
		return nil, append(notes, "bmp: non-positive declared dimension")
	}
	switch h.bitCount {
	case 1, 4, 8, 16, 24, 32, 64:
	default:
		notes = append(notes, "bmp: unusual bit depth, treating as 8")
		h.bitCount = 8
	}

	return h, notes
}

// rowStride returns the padded-to-4-bytes byte length of one scanline.
func rowStride(width, bitCount int) int {
	bits := width * bitCount
	bytes := (bits + 7) / 8
	return (bytes + 3) &^ 3
}

func u16le(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func u32le(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// paletteAt reads the palette starting right after the DIB header (and any
// trailing BITFIELDS masks), using the file header's declared dataOffset as
// the authoritative end boundary rather than recomputing it — a mismatched
// dataOffset is recoverable by clamping, not a hard failure.
func paletteAt(data []byte, h *header) ([]colorEntry, []string) {
	if h.bitCount > 8 {
		return nil, nil
	}
	n := h.colorsUsed
	if n <= 0 || n > 1<<uint(h.bitCount) {
		n = 1 << uint(h.bitCount)
	}
	entrySize := 4
	if h.dibSize == 12 {
		entrySize = 3
	}
	start := 14 + h.dibSize
	if h.dibSize == 40 && (h.compression == compBitfields || h.compression == compAlphaBitfields) {
		start += 12
		if h.compression == compAlphaBitfields {
			start += 4
		}
	}
	need := n * entrySize
	if start+need > h.dataOffset && h.dataOffset > start {
		// Declared palette runs past the pixel data offset: shrink to fit.
		need = h.dataOffset - start
		n = need / entrySize
	}
	if start < 0 || start+need > len(data) || need <= 0 {
		return nil, []string{"bmp: palette truncated or absent"}
	}
	body := data[start : start+need]
	pal := make([]colorEntry, n)
	for i := 0; i < n; i++ {
		e := body[i*entrySize : i*entrySize+entrySize]
		pal[i] = colorEntry{b: e[0], g: e[1], r: e[2]}
	}
	return pal, nil
}

type colorEntry struct{ r, g, b uint8 }
