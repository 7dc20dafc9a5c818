package png

import "github.com/vexeldecode/vexel/imgmodel"

// rawImage holds fully reconstructed (unfiltered, de-interlaced) samples for
// one PNG image at their source bit depth, channel-interleaved, row-major, one
// uint16 per sample regardless of source bit depth, following the teacher
// pack's approach of separating "reconstruct the grid" from "interpret the
// grid" (fumin/png keeps the analogous split between DecodeRow and its
// NRGBA-specific caller).
type rawImage struct {
	width, height, channels, depth int
	samples                       []uint16 // len == width*height*channels
}

func newRawImage(w, h, channels, depth int) *rawImage {
	return &rawImage{width: w, height: h, channels: channels, depth: depth, samples: make([]uint16, w*h*channels)}
}

func (r *rawImage) at(x, y, c int) uint16 {
	return r.samples[(y*r.width+x)*r.channels+c]
}

func (r *rawImage) set(x, y, c int, v uint16) {
	r.samples[(y*r.width+x)*r.channels+c] = v
}

// scanCursor walks the inflated IDAT byte stream a row at a time, padding
// short reads with zero (spec §4.5 recovery: "inflate underrun -> pad
// remaining scanlines with zeros").
type scanCursor struct {
	data  []byte
	pos   int
	ended bool
}

func (c *scanCursor) readRow(n int) []byte {
	row := make([]byte, n)
	avail := len(c.data) - c.pos
	if avail <= 0 {
		c.ended = true
		return row
	}
	if avail < n {
		copy(row, c.data[c.pos:])
		c.pos = len(c.data)
		c.ended = true
		return row
	}
	copy(row, c.data[c.pos:c.pos+n])
	c.pos += n
	return row
}

// decodeScanlines reconstructs a full rawImage from the inflated,
// filtered+interlaced byte stream, choosing the non-interlaced or Adam7 path
// per ihdr.interlace.
func decodeScanlines(data []byte, ih *ihdrData) (*rawImage, []string) {
	var notes []string
	raw := newRawImage(ih.width, ih.height, ih.channels(), ih.bitDepth)
	cur := &scanCursor{data: data}

	if ih.interlace == 0 {
		decodePlane(cur, raw, 0, 0, 1, 1, ih.width, ih.height, ih.channels(), ih.bitDepth, &notes)
	} else {
		for _, p := range adam7Passes {
			pw := passDim(ih.width, p.xStart, p.xStep)
			ph := passDim(ih.height, p.yStart, p.yStep)
			if pw == 0 || ph == 0 {
				continue
			}
			decodePlane(cur, raw, p.xStart, p.yStart, p.xStep, p.yStep, pw, ph, ih.channels(), ih.bitDepth, &notes)
		}
	}
	if cur.ended {
		notes = append(notes, "png: pixel data ended before all scanlines were read, remaining samples are zero")
	}
	return raw, notes
}

// decodePlane reconstructs one rectangular region of passWidth x passHeight
// samples (the whole image for non-interlaced PNG, one Adam7 pass
// otherwise) and scatters it into raw at (xStart+i*xStep, yStart+j*yStep).
func decodePlane(cur *scanCursor, raw *rawImage, xStart, yStart, xStep, yStep, passWidth, passHeight, channels, depth int, notes *[]string) {
	bpp := filterBytesPerPixel(channels, depth)
	rowBits := channels * depth * passWidth
	rowBytes := (rowBits + 7) / 8

	prev := make([]byte, rowBytes)
	for row := 0; row < passHeight; row++ {
		line := cur.readRow(1 + rowBytes)
		ft := line[0]
		curRow := line[1:]
		if !unfilterRow(ft, curRow, prev, bpp) {
			*notes = append(*notes, "png: invalid filter type, treating row as unfiltered")
		}
		unpackRow(curRow, raw, xStart, yStart+row*yStep, xStep, passWidth, channels, depth)
		prev = curRow
	}
}

// unpackRow expands one reconstructed (post-filter) scanline of passWidth
// pixels, each channels*depth bits wide, into raw's sample grid at the Adam7
// scatter positions implied by xStart/xStep. y is the absolute row this
// scanline lands on.
func unpackRow(row []byte, raw *rawImage, xStart, y, xStep, passWidth, channels, depth int) {
	switch depth {
	case 8:
		idx := 0
		for px := 0; px < passWidth; px++ {
			x := xStart + px*xStep
			for c := 0; c < channels; c++ {
				raw.set(x, y, c, uint16(row[idx]))
				idx++
			}
		}
	case 16:
		idx := 0
		for px := 0; px < passWidth; px++ {
			x := xStart + px*xStep
			for c := 0; c < channels; c++ {
				v := uint16(row[idx])<<8 | uint16(row[idx+1])
				raw.set(x, y, c, v)
				idx += 2
			}
		}
	default: // 1, 2, 4 -- only ever grayscale or palette (channels == 1)
		bitPos := 0
		mask := uint16(1<<uint(depth)) - 1
		for px := 0; px < passWidth; px++ {
			x := xStart + px*xStep
			byteIdx := bitPos / 8
			shift := 8 - depth - (bitPos % 8)
			var v uint16
			if byteIdx < len(row) {
				v = (uint16(row[byteIdx]) >> uint(shift)) & mask
			}
			raw.set(x, y, 0, v)
			bitPos += depth
		}
	}
}

// scaleSample widens a depth-bit sample to 8 or 16 bits by bit replication
// (`(v << (8-depth)) | (v >> (2*depth-8))` generalized for any target width),
// the same scaling rule the spec names for BMP's masked channels (§4.7),
// applied here for PNG's sub-8-bit grayscale output and for widening
// tRNS-keyed grayscale/truecolor samples to 16 bits.
func scaleSample(v uint16, depth, targetBits int) uint16 {
	if depth >= targetBits {
		return v
	}
	out := v
	bits := depth
	for bits < targetBits {
		out = out<<uint(depth) | v
		bits += depth
	}
	return out >> uint(bits-targetBits)
}

// toImage interprets a decoded rawImage according to the IHDR color type,
// merging palette/tRNS as needed. Grayscale/truecolor images gain an alpha
// channel only when a tRNS transparent-color key is present (imgmodel has no
// plain-gray-with-colorkey variant); palette transparency is folded straight
// into Indexed8's own palette entries instead.
func toImage(raw *rawImage, ih *ihdrData, pal []colorEntry, trns *trnsData) imgmodel.Image {
	switch ih.colorType {
	case 0: // grayscale
		if trns != nil && trns.hasGray {
			out := imgmodel.NewLA16(raw.width, raw.height)
			for y := 0; y < raw.height; y++ {
				for x := 0; x < raw.width; x++ {
					v := raw.at(x, y, 0)
					a := uint16(0xffff)
					if v == trns.gray {
						a = 0
					}
					out.SetLA(x, y, scaleSample(v, ih.bitDepth, 16), a)
				}
			}
			return out
		}
		if ih.bitDepth == 16 {
			out := imgmodel.NewL16(raw.width, raw.height)
			for y := 0; y < raw.height; y++ {
				for x := 0; x < raw.width; x++ {
					out.SetL(x, y, raw.at(x, y, 0))
				}
			}
			return out
		}
		out := imgmodel.NewL8(raw.width, raw.height)
		for y := 0; y < raw.height; y++ {
			for x := 0; x < raw.width; x++ {
				out.SetL(x, y, uint8(scaleSample(raw.at(x, y, 0), ih.bitDepth, 8)))
			}
		}
		return out

	case 2: // truecolor
		if trns != nil && trns.hasRGB {
			out := imgmodel.NewRGBA16(raw.width, raw.height)
			for y := 0; y < raw.height; y++ {
				for x := 0; x < raw.width; x++ {
					r, g, b := raw.at(x, y, 0), raw.at(x, y, 1), raw.at(x, y, 2)
					a := uint16(0xffff)
					if r == trns.rgb[0] && g == trns.rgb[1] && b == trns.rgb[2] {
						a = 0
					}
					out.SetRGBA(x, y, scaleSample(r, ih.bitDepth, 16), scaleSample(g, ih.bitDepth, 16), scaleSample(b, ih.bitDepth, 16), a)
				}
			}
			return out
		}
		if ih.bitDepth == 16 {
			out := imgmodel.NewRGB16(raw.width, raw.height)
			for y := 0; y < raw.height; y++ {
				for x := 0; x < raw.width; x++ {
					out.SetRGB(x, y, raw.at(x, y, 0), raw.at(x, y, 1), raw.at(x, y, 2))
				}
			}
			return out
		}
		out := imgmodel.NewRGB8(raw.width, raw.height)
		for y := 0; y < raw.height; y++ {
			for x := 0; x < raw.width; x++ {
				out.SetRGB(x, y, uint8(raw.at(x, y, 0)), uint8(raw.at(x, y, 1)), uint8(raw.at(x, y, 2)))
			}
		}
		return out

	case 3: // indexed
		out := imgmodel.NewIndexed8(raw.width, raw.height, paletteToColorPalette(pal, trns))
		for y := 0; y < raw.height; y++ {
			for x := 0; x < raw.width; x++ {
				out.SetIndex(x, y, uint8(raw.at(x, y, 0)))
			}
		}
		out.Clamp()
		return out

	case 4: // gray+alpha
		if ih.bitDepth == 16 {
			out := imgmodel.NewLA16(raw.width, raw.height)
			for y := 0; y < raw.height; y++ {
				for x := 0; x < raw.width; x++ {
					out.SetLA(x, y, raw.at(x, y, 0), raw.at(x, y, 1))
				}
			}
			return out
		}
		out := imgmodel.NewLA8(raw.width, raw.height)
		for y := 0; y < raw.height; y++ {
			for x := 0; x < raw.width; x++ {
				out.SetLA(x, y, uint8(raw.at(x, y, 0)), uint8(raw.at(x, y, 1)))
			}
		}
		return out

	case 6: // truecolor+alpha
		if ih.bitDepth == 16 {
			out := imgmodel.NewRGBA16(raw.width, raw.height)
			for y := 0; y < raw.height; y++ {
				for x := 0; x < raw.width; x++ {
					out.SetRGBA(x, y, raw.at(x, y, 0), raw.at(x, y, 1), raw.at(x, y, 2), raw.at(x, y, 3))
				}
			}
			return out
		}
		out := imgmodel.NewRGBA8(raw.width, raw.height)
		for y := 0; y < raw.height; y++ {
			for x := 0; x < raw.width; x++ {
				out.SetRGBA(x, y, uint8(raw.at(x, y, 0)), uint8(raw.at(x, y, 1)), uint8(raw.at(x, y, 2)), uint8(raw.at(x, y, 3)))
			}
		}
		return out
	}
	return imgmodel.NewL8(1, 1)
}
