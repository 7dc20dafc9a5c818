package netpbm

import "github.com/vexeldecode/vexel/imgmodel"

// decodeASCIIBitmap reads P1: decimal 0/1 tokens, netpbm's inverted bitmap
// convention (1 = black, 0 = white).
func decodeASCIIBitmap(sc *scanner, w, h int) (imgmodel.Image, []string) {
	var notes []string
	img := imgmodel.NewL8(w, h)
	for i := 0; i < w*h; i++ {
		v, ok := parseIntToken(sc)
		if !ok {
			notes = append(notes, "netpbm: ASCII bitmap data truncated, leaving remainder white")
			for j := i; j < w*h; j++ {
				img.Pix[j] = 255
			}
			break
		}
		gray := uint8(255)
		if v != 0 {
			gray = 0
		}
		img.Pix[i] = gray
	}
	return img, notes
}

// decodeASCIIGray reads P2: decimal gray tokens scaled from [0,maxval].
func decodeASCIIGray(sc *scanner, w, h, maxval int) (imgmodel.Image, []string) {
	var notes []string
	if maxval > 255 {
		img := imgmodel.NewL16(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v, ok := parseIntToken(sc)
				if !ok {
					notes = append(notes, "netpbm: ASCII grayscale data truncated")
					return img, notes
				}
				img.SetL(x, y, scaleSample(v, maxval, 65535))
			}
		}
		return img, notes
	}
	img := imgmodel.NewL8(w, h)
	for i := 0; i < w*h; i++ {
		v, ok := parseIntToken(sc)
		if !ok {
			notes = append(notes, "netpbm: ASCII grayscale data truncated")
			break
		}
		img.Pix[i] = uint8(scaleSample(v, maxval, 255))
	}
	return img, notes
}

// decodeASCIIRGB reads P3: decimal R,G,B triples scaled from [0,maxval].
func decodeASCIIRGB(sc *scanner, w, h, maxval int) (imgmodel.Image, []string) {
	var notes []string
	if maxval > 255 {
		img := imgmodel.NewRGB16(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, ok1 := parseIntToken(sc)
				g, ok2 := parseIntToken(sc)
				b, ok3 := parseIntToken(sc)
				if !ok1 || !ok2 || !ok3 {
					notes = append(notes, "netpbm: ASCII RGB data truncated")
					return img, notes
				}
				img.SetRGB(x, y, scaleSample(r, maxval, 65535), scaleSample(g, maxval, 65535), scaleSample(b, maxval, 65535))
			}
		}
		return img, notes
	}
	img := imgmodel.NewRGB8(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, ok1 := parseIntToken(sc)
			g, ok2 := parseIntToken(sc)
			b, ok3 := parseIntToken(sc)
			if !ok1 || !ok2 || !ok3 {
				notes = append(notes, "netpbm: ASCII RGB data truncated")
				return img, notes
			}
			img.SetRGB(x, y, uint8(scaleSample(r, maxval, 255)), uint8(scaleSample(g, maxval, 255)), uint8(scaleSample(b, maxval, 255)))
		}
	}
	return img, notes
}
