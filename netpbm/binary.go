package netpbm

import "github.com/vexeldecode/vexel/imgmodel"

// sampleWidth is 1 byte/sample if maxval <= 255, else 2 bytes big-endian
// (spec §4.8), the rule shared by P5/P6 and PAM's binary body.
func sampleWidth(maxval int) int {
	if maxval > 255 {
		return 2
	}
	return 1
}

func readSample(data []byte, off, width int) (int, bool) {
	if off+width > len(data) {
		return 0, false
	}
	if width == 1 {
		return int(data[off]), true
	}
	return int(data[off])<<8 | int(data[off+1]), true
}

// decodeBinaryBitmap reads P4: packed 1-bit-per-pixel rows, MSB first, each
// row padded to a whole byte, with netpbm's inverted convention (1 = black).
func decodeBinaryBitmap(data []byte, w, h int) (imgmodel.Image, []string) {
	var notes []string
	img := imgmodel.NewL8(w, h)
	stride := (w + 7) / 8
	for y := 0; y < h; y++ {
		start := y * stride
		if start+stride > len(data) {
			notes = append(notes, "netpbm: binary bitmap data truncated")
			break
		}
		row := data[start : start+stride]
		for x := 0; x < w; x++ {
			bit := (row[x/8] >> (7 - uint(x%8))) & 1
			gray := uint8(255)
			if bit != 0 {
				gray = 0
			}
			img.SetL(x, y, gray)
		}
	}
	return img, notes
}

// decodeBinaryGray reads P5 (and PAM depth 1).
func decodeBinaryGray(data []byte, w, h, maxval int) (imgmodel.Image, []string) {
	var notes []string
	width := sampleWidth(maxval)
	if maxval > 255 {
		img := imgmodel.NewL16(w, h)
		off := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v, ok := readSample(data, off, width)
				off += width
				if !ok {
					notes = append(notes, "netpbm: binary grayscale data truncated")
					return img, notes
				}
				img.SetL(x, y, scaleSample(v, maxval, 65535))
			}
		}
		return img, notes
	}
	img := imgmodel.NewL8(w, h)
	off := 0
	for i := 0; i < w*h; i++ {
		v, ok := readSample(data, off, width)
		off += width
		if !ok {
			notes = append(notes, "netpbm: binary grayscale data truncated")
			break
		}
		img.Pix[i] = uint8(scaleSample(v, maxval, 255))
	}
	return img, notes
}

// decodeBinaryRGB reads P6 (and PAM depth 3).
func decodeBinaryRGB(data []byte, w, h, maxval int) (imgmodel.Image, []string) {
	var notes []string
	width := sampleWidth(maxval)
	if maxval > 255 {
		img := imgmodel.NewRGB16(w, h)
		off := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, ok1 := readSample(data, off, width)
				off += width
				g, ok2 := readSample(data, off, width)
				off += width
				b, ok3 := readSample(data, off, width)
				off += width
				if !ok1 || !ok2 || !ok3 {
					notes = append(notes, "netpbm: binary RGB data truncated")
					return img, notes
				}
				img.SetRGB(x, y, scaleSample(r, maxval, 65535), scaleSample(g, maxval, 65535), scaleSample(b, maxval, 65535))
			}
		}
		return img, notes
	}
	img := imgmodel.NewRGB8(w, h)
	off := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, ok1 := readSample(data, off, width)
			off += width
			g, ok2 := readSample(data, off, width)
			off += width
			b, ok3 := readSample(data, off, width)
			off += width
			if !ok1 || !ok2 || !ok3 {
				notes = append(notes, "netpbm: binary RGB data truncated")
				return img, notes
			}
			img.SetRGB(x, y, uint8(scaleSample(r, maxval, 255)), uint8(scaleSample(g, maxval, 255)), uint8(scaleSample(b, maxval, 255)))
		}
	}
	return img, notes
}

// decodePAMGrayAlpha reads a PAM depth-2 (GRAYSCALE_ALPHA) body.
func decodePAMGrayAlpha(data []byte, w, h, maxval, width int) (imgmodel.Image, []string) {
	var notes []string
	if maxval > 255 {
		img := imgmodel.NewLA16(w, h)
		off := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				l, ok1 := readSample(data, off, width)
				off += width
				a, ok2 := readSample(data, off, width)
				off += width
				if !ok1 || !ok2 {
					notes = append(notes, "netpbm: PAM gray+alpha data truncated")
					return img, notes
				}
				img.SetLA(x, y, scaleSample(l, maxval, 65535), scaleSample(a, maxval, 65535))
			}
		}
		return img, notes
	}
	img := imgmodel.NewLA8(w, h)
	off := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l, ok1 := readSample(data, off, width)
			off += width
			a, ok2 := readSample(data, off, width)
			off += width
			if !ok1 || !ok2 {
				notes = append(notes, "netpbm: PAM gray+alpha data truncated")
				return img, notes
			}
			img.SetLA(x, y, uint8(scaleSample(l, maxval, 255)), uint8(scaleSample(a, maxval, 255)))
		}
	}
	return img, notes
}

// decodePAMRGBA reads a PAM depth-4 (RGB_ALPHA) body.
func decodePAMRGBA(data []byte, w, h, maxval, width int) (imgmodel.Image, []string) {
	var notes []string
	if maxval > 255 {
		img := imgmodel.NewRGBA16(w, h)
		off := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, ok1 := readSample(data, off, width)
				off += width
				g, ok2 := readSample(data, off, width)
				off += width
				b, ok3 := readSample(data, off, width)
				off += width
				a, ok4 := readSample(data, off, width)
				off += width
				if !ok1 || !ok2 || !ok3 || !ok4 {
					notes = append(notes, "netpbm: PAM RGBA data truncated")
					return img, notes
				}
				img.SetRGBA(x, y, scaleSample(r, maxval, 65535), scaleSample(g, maxval, 65535), scaleSample(b, maxval, 65535), scaleSample(a, maxval, 65535))
			}
		}
		return img, notes
	}
	img := imgmodel.NewRGBA8(w, h)
	off := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, ok1 := readSample(data, off, width)
			off += width
			g, ok2 := readSample(data, off, width)
			off += width
			b, ok3 := readSample(data, off, width)
			off += width
			a, ok4 := readSample(data, off, width)
			off += width
			if !ok1 || !ok2 || !ok3 || !ok4 {
				notes = append(notes, "netpbm: PAM RGBA data truncated")
				return img, notes
			}
			img.SetRGBA(x, y, uint8(scaleSample(r, maxval, 255)), uint8(scaleSample(g, maxval, 255)), uint8(scaleSample(b, maxval, 255)), uint8(scaleSample(a, maxval, 255)))
		}
	}
	return img, notes
}
