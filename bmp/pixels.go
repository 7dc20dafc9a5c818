package bmp

import (
	"image/color"

	"github.com/vexeldecode/vexel/imgmodel"
)

func paletteToColorPalette(pal []colorEntry) color.Palette {
	if len(pal) == 0 {
		return color.Palette{color.NRGBA{A: 0xff}}
	}
	p := make(color.Palette, len(pal))
	for i, c := range pal {
		p[i] = color.NRGBA{R: c.r, G: c.g, B: c.b, A: 0xff}
	}
	return p
}

// maskShiftWidth decomposes a channel mask into its low bit position and bit
// width, so a masked sample can be right-shifted into place and then scaled.
func maskShiftWidth(mask uint32) (shift, width uint) {
	if mask == 0 {
		return 0, 0
	}
	for mask&1 == 0 {
		mask >>= 1
		shift++
	}
	for mask&1 == 1 {
		width++
		mask >>= 1
	}
	return shift, width
}

// scaleToByte widens (or narrows) a width-bit channel sample to 8 bits using
// the bit-replication formula from spec §4.7: the sample is left-shifted
// into the top of the byte, then its own high bits are repeated into the
// remaining low bits so 0 maps to 0 and, for widths of 4 bits or more, the
// max value maps to 0xff. Widths below 4 are only shifted (a 3-bit 7 becomes
// 0xe0).
func scaleToByte(v uint32, width uint) uint8 {
	switch {
	case width == 0:
		return 0
	case width >= 8:
		return uint8(v >> (width - 8))
	default:
		out := v << (8 - width)
		if 2*width >= 8 {
			out |= v >> (2*width - 8)
		}
		return uint8(out)
	}
}

func unpackIndexedRow(row []byte, bitCount, width int, dst []byte) {
	switch bitCount {
	case 8:
		n := width
		if n > len(row) {
			n = len(row)
		}
		copy(dst, row[:n])
	case 4:
		for x := 0; x < width; x++ {
			byteIdx := x / 2
			if byteIdx >= len(row) {
				return
			}
			b := row[byteIdx]
			if x%2 == 0 {
				dst[x] = b >> 4
			} else {
				dst[x] = b & 0x0f
			}
		}
	case 1:
		for x := 0; x < width; x++ {
			byteIdx := x / 8
			if byteIdx >= len(row) {
				return
			}
			b := row[byteIdx]
			bit := 7 - uint(x%8)
			dst[x] = (b >> bit) & 0x01
		}
	}
}

func outputRow(h *header, fileRow int) int {
	if h.topDown {
		return fileRow
	}
	return h.height - 1 - fileRow
}

func decodeUncompressedIndexed(data []byte, h *header, pal []colorEntry) (imgmodel.Image, []string) {
	var notes []string
	img := imgmodel.NewIndexed8(h.width, h.height, paletteToColorPalette(pal))
	stride := rowStride(h.width, h.bitCount)
	for row := 0; row < h.height; row++ {
		start := row * stride
		end := start + stride
		if end > len(data) {
			notes = append(notes, "bmp: pixel data truncated, stopping early")
			break
		}
		y := outputRow(h, row)
		unpackIndexedRow(data[start:end], h.bitCount, h.width, img.Pix[y*h.width:(y+1)*h.width])
	}
	img.Clamp()
	return img, notes
}

func decodeRLEIndexed(data []byte, h *header, pal []colorEntry, nibble bool) (imgmodel.Image, []string) {
	indices, notes := decodeRLE(data, h.width, h.height, nibble)
	img := imgmodel.NewIndexed8(h.width, h.height, paletteToColorPalette(pal))
	for row := 0; row < h.height; row++ {
		y := outputRow(h, row)
		copy(img.Pix[y*h.width:(y+1)*h.width], indices[row*h.width:(row+1)*h.width])
	}
	img.Clamp()
	return img, notes
}

func decode24(data []byte, h *header) (imgmodel.Image, []string) {
	var notes []string
	img := imgmodel.NewRGB8(h.width, h.height)
	stride := rowStride(h.width, 24)
	for row := 0; row < h.height; row++ {
		start := row * stride
		end := start + stride
		if end > len(data) {
			notes = append(notes, "bmp: pixel data truncated, stopping early")
			break
		}
		rowBytes := data[start:end]
		y := outputRow(h, row)
		for x := 0; x < h.width; x++ {
			off := x * 3
			if off+3 > len(rowBytes) {
				break
			}
			b, g, r := rowBytes[off], rowBytes[off+1], rowBytes[off+2]
			img.SetRGB(x, y, r, g, b)
		}
	}
	return img, notes
}

// decodeMasked handles 16- and 32-bit rows, whether BI_RGB (implicit default
// masks) or BI_BITFIELDS/BI_ALPHABITFIELDS (explicit masks from the header).
func decodeMasked(data []byte, h *header) (imgmodel.Image, []string) {
	var notes []string
	rMask, gMask, bMask, aMask := h.rMask, h.gMask, h.bMask, h.aMask
	if rMask == 0 && gMask == 0 && bMask == 0 {
		if h.bitCount == 16 {
			rMask, gMask, bMask = 0x7c00, 0x03e0, 0x001f
		} else {
			rMask, gMask, bMask = 0x00ff0000, 0x0000ff00, 0x000000ff
		}
	}
	rShift, rWidth := maskShiftWidth(rMask)
	gShift, gWidth := maskShiftWidth(gMask)
	bShift, bWidth := maskShiftWidth(bMask)
	aShift, aWidth := maskShiftWidth(aMask)
	hasAlpha := aMask != 0

	bytesPerPixel := h.bitCount / 8
	stride := rowStride(h.width, h.bitCount)

	var rgbImg *imgmodel.RGB8
	var rgbaImg *imgmodel.RGBA8
	if hasAlpha {
		rgbaImg = imgmodel.NewRGBA8(h.width, h.height)
	} else {
		rgbImg = imgmodel.NewRGB8(h.width, h.height)
	}

	for row := 0; row < h.height; row++ {
		start := row * stride
		end := start + stride
		if end > len(data) {
			notes = append(notes, "bmp: pixel data truncated, stopping early")
			break
		}
		rowBytes := data[start:end]
		y := outputRow(h, row)
		for x := 0; x < h.width; x++ {
			off := x * bytesPerPixel
			if off+bytesPerPixel > len(rowBytes) {
				break
			}
			var v uint32
			if bytesPerPixel == 2 {
				v = uint32(u16le(rowBytes[off : off+2]))
			} else {
				v = u32le(rowBytes[off : off+4])
			}
			r := scaleToByte((v&rMask)>>rShift, rWidth)
			g := scaleToByte((v&gMask)>>gShift, gWidth)
			b := scaleToByte((v&bMask)>>bShift, bWidth)
			if hasAlpha {
				a := scaleToByte((v&aMask)>>aShift, aWidth)
				rgbaImg.SetRGBA(x, y, r, g, b, a)
			} else {
				rgbImg.SetRGB(x, y, r, g, b)
			}
		}
	}
	if hasAlpha {
		return rgbaImg, notes
	}
	return rgbImg, notes
}

// decode64 reads the 64-bit extension as four 16-bit little-endian channel
// samples per pixel in B,G,R,A order, mirroring the 32-bit BGRA byte order
// widened to 16 bits/channel (spec §4.7).
func decode64(data []byte, h *header) (imgmodel.Image, []string) {
	var notes []string
	img := imgmodel.NewRGBA16(h.width, h.height)
	stride := rowStride(h.width, 64)
	for row := 0; row < h.height; row++ {
		start := row * stride
		end := start + stride
		if end > len(data) {
			notes = append(notes, "bmp: pixel data truncated, stopping early")
			break
		}
		rowBytes := data[start:end]
		y := outputRow(h, row)
		for x := 0; x < h.width; x++ {
			off := x * 8
			if off+8 > len(rowBytes) {
				break
			}
			b := u16le(rowBytes[off : off+2])
			g := u16le(rowBytes[off+2 : off+4])
			r := u16le(rowBytes[off+4 : off+6])
			a := u16le(rowBytes[off+6 : off+8])
			img.SetRGBA(x, y, r, g, b, a)
		}
	}
	return img, notes
}
