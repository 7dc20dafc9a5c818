package tiff

import "github.com/vexeldecode/vexel/imgmodel"

// buildImage assembles the concatenated strip bytes into a concrete
// imgmodel.Image, dispatching on SamplesPerPixel the way spec §4.9
// describes (the reference reader this package is grounded on only covers
// HDR float/LogL/LogLuv modes, so this dispatch and the per-pixel loops
// below are written directly from the spec's plain gray/RGB(A) rules).
func buildImage(pix []byte, w, h, samples, bitDepth, photometric int, be bool) (imgmodel.Image, []string) {
	switch samples {
	case 1:
		return buildGray(pix, w, h, bitDepth, photometric, be)
	case 3:
		return buildRGB(pix, w, h, bitDepth, be)
	case 4:
		return buildRGBA(pix, w, h, bitDepth, be)
	}
	return nil, []string{"tiff: unsupported SamplesPerPixel, only 1/3/4 are handled"}
}

func shortfallNote(have, want int) string {
	return "tiff: strip data shorter than declared image, zero-filling remainder"
}

func buildGray(pix []byte, w, h, bitDepth, photometric int, be bool) (imgmodel.Image, []string) {
	var notes []string
	invert := photometric == photoWhiteIsZero
	n := w * h

	if bitDepth == 16 {
		img := imgmodel.NewL16(w, h)
		if len(pix) < n*2 {
			notes = append(notes, shortfallNote(len(pix), n*2))
		}
		for i := 0; i < n; i++ {
			off := i * 2
			var v uint16
			if off+2 <= len(pix) {
				v = readU16(pix[off:off+2], be)
			}
			if invert {
				v = 0xffff - v
			}
			img.Pix[2*i], img.Pix[2*i+1] = uint8(v>>8), uint8(v)
		}
		return img, notes
	}

	img := imgmodel.NewL8(w, h)
	if len(pix) < n {
		notes = append(notes, shortfallNote(len(pix), n))
	}
	for i := 0; i < n; i++ {
		var v uint8
		if i < len(pix) {
			v = pix[i]
		}
		if invert {
			v = 0xff - v
		}
		img.Pix[i] = v
	}
	return img, notes
}

func buildRGB(pix []byte, w, h, bitDepth int, be bool) (imgmodel.Image, []string) {
	var notes []string
	n := w * h

	if bitDepth == 16 {
		img := imgmodel.NewRGB16(w, h)
		need := n * 6
		if len(pix) < need {
			notes = append(notes, shortfallNote(len(pix), need))
		}
		for i := 0; i < n; i++ {
			off := i * 6
			r, g, b := sample16(pix, off, be), sample16(pix, off+2, be), sample16(pix, off+4, be)
			img.SetRGB(i%w, i/w, r, g, b)
		}
		return img, notes
	}

	img := imgmodel.NewRGB8(w, h)
	need := n * 3
	if len(pix) < need {
		notes = append(notes, shortfallNote(len(pix), need))
	}
	for i := 0; i < n; i++ {
		off := i * 3
		r, g, b := sample8(pix, off), sample8(pix, off+1), sample8(pix, off+2)
		img.SetRGB(i%w, i/w, r, g, b)
	}
	return img, notes
}

func buildRGBA(pix []byte, w, h, bitDepth int, be bool) (imgmodel.Image, []string) {
	var notes []string
	n := w * h

	if bitDepth == 16 {
		img := imgmodel.NewRGBA16(w, h)
		need := n * 8
		if len(pix) < need {
			notes = append(notes, shortfallNote(len(pix), need))
		}
		for i := 0; i < n; i++ {
			off := i * 8
			r, g, b, a := sample16(pix, off, be), sample16(pix, off+2, be), sample16(pix, off+4, be), sample16(pix, off+6, be)
			img.SetRGBA(i%w, i/w, r, g, b, a)
		}
		return img, notes
	}

	img := imgmodel.NewRGBA8(w, h)
	need := n * 4
	if len(pix) < need {
		notes = append(notes, shortfallNote(len(pix), need))
	}
	for i := 0; i < n; i++ {
		off := i * 4
		r, g, b, a := sample8(pix, off), sample8(pix, off+1), sample8(pix, off+2), sample8(pix, off+3)
		img.SetRGBA(i%w, i/w, r, g, b, a)
	}
	return img, notes
}

func sample8(pix []byte, off int) uint8 {
	if off < 0 || off >= len(pix) {
		return 0
	}
	return pix[off]
}

func sample16(pix []byte, off int, be bool) uint16 {
	if off < 0 || off+2 > len(pix) {
		return 0
	}
	return readU16(pix[off:off+2], be)
}
