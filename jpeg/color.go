package jpeg

import "github.com/vexeldecode/vexel/imgmodel"

// sampleAt looks up comp's reconstructed plane at the full-frame pixel
// position (x, y), nearest-neighbor upsampling by the component's
// subsampling ratio relative to the frame's most-sampled component. Spec
// design notes call nearest-neighbor chroma upsampling sufficient, so no
// triangle/bilinear filter is implemented (the teacher's JPEG never
// upsamples at all, writing grayscale and full-resolution-only YCbCr).
func sampleAt(comp *component, fr *frameHeader, x, y int) uint8 {
	sx := x * comp.hSamp / fr.maxHSamp
	sy := y * comp.vSamp / fr.maxVSamp
	stride := comp.stride
	if sx >= stride {
		sx = stride - 1
	}
	maxRow := comp.rows - 1
	if sy > maxRow {
		sy = maxRow
	}
	if sx < 0 {
		sx = 0
	}
	if sy < 0 {
		sy = 0
	}
	idx := sy*stride + sx
	if idx < 0 || idx >= len(comp.samples) {
		return 0
	}
	return comp.samples[idx]
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ycbcrToRGB converts one pixel using the JFIF matrix from the teacher's
// writeYCbCr (decode.go).
func ycbcrToRGB(y, cb, cr uint8) (r, g, b uint8) {
	ys := float64(y)
	cbs := float64(cb)
	crs := float64(cr)
	r = clamp255(0.5 + ys + 1.402*(crs-128.0))
	g = clamp255(0.5 + ys - 0.34414*(cbs-128.0) - 0.71414*(crs-128.0))
	b = clamp255(0.5 + ys + 1.772*(cbs-128.0))
	return
}

// render assembles the final pixel plane once every scan in fr has been
// IDCT'd into each component's sample plane.
func render(fr *frameHeader) imgmodel.Image {
	w, h := fr.width, fr.height
	switch len(fr.components) {
	case 1:
		out := imgmodel.NewL8(w, h)
		comp := fr.components[0]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.SetL(x, y, sampleAt(comp, fr, x, y))
			}
		}
		return out
	case 3:
		out := imgmodel.NewRGB8(w, h)
		y0, cb0, cr0 := fr.components[0], fr.components[1], fr.components[2]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				yy := sampleAt(y0, fr, x, y)
				cb := sampleAt(cb0, fr, x, y)
				cr := sampleAt(cr0, fr, x, y)
				r, g, b := ycbcrToRGB(yy, cb, cr)
				out.SetRGB(x, y, r, g, b)
			}
		}
		return out
	case 4:
		// Adobe-style YCCK/CMYK: approximate via naive subtractive
		// conversion, good enough for best-effort recovery (no ICC).
		out := imgmodel.NewRGB8(w, h)
		c0, c1, c2, k0 := fr.components[0], fr.components[1], fr.components[2], fr.components[3]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				yy := sampleAt(c0, fr, x, y)
				cb := sampleAt(c1, fr, x, y)
				cr := sampleAt(c2, fr, x, y)
				k := sampleAt(k0, fr, x, y)
				r, g, b := ycbcrToRGB(yy, cb, cr)
				r = clamp255(float64(r) * float64(k) / 255.0)
				g = clamp255(float64(g) * float64(k) / 255.0)
				b = clamp255(float64(b) * float64(k) / 255.0)
				out.SetRGB(x, y, r, g, b)
			}
		}
		return out
	}
	// No component count we recognize: emit a 1x1 black placeholder,
	// caller records an UnsupportedFeature note.
	return imgmodel.NewL8(1, 1)
}
