package gif

import (
	"image/color"

	"github.com/vexeldecode/vexel/bitio"
)

// screenDescriptor is the GIF Logical Screen Descriptor (GIF89a §18).
type screenDescriptor struct {
	width, height      int
	globalTableFlag    bool
	colorResolution    int
	sortFlag           bool
	globalTableSize    int // number of entries = 1 << (globalTableSize+1)
	backgroundColorIdx int
}

func parseScreenDescriptor(br *bitio.ByteReader) (*screenDescriptor, []string) {
	var notes []string
	w, _ := br.ReadU16LE()
	h, _ := br.ReadU16LE()
	flags, _ := br.ReadU8()
	bgIdx, _ := br.ReadU8()
	_, _ = br.ReadU8() // pixel aspect ratio, unused for decode

	sd := &screenDescriptor{
		width:              int(w),
		height:             int(h),
		globalTableFlag:    flags&0x80 != 0,
		colorResolution:    int((flags>>4)&0x07) + 1,
		sortFlag:           flags&0x08 != 0,
		globalTableSize:    int(flags & 0x07),
		backgroundColorIdx: int(bgIdx),
	}
	if sd.width <= 0 || sd.height <= 0 {
		notes = append(notes, "gif: logical screen descriptor has a non-positive dimension")
	}
	return sd, notes
}

// readColorTable reads n entries (n a power of two) of 3-byte RGB color
// table data into a color.Palette.
func readColorTable(br *bitio.ByteReader, n int) (color.Palette, []string) {
	var notes []string
	pal := make(color.Palette, n)
	for i := 0; i < n; i++ {
		rgb, err := br.ReadExact(3)
		if err != nil {
			notes = append(notes, "gif: color table truncated, remaining entries are black")
			for ; i < n; i++ {
				pal[i] = color.NRGBA{A: 0xff}
			}
			break
		}
		pal[i] = color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}
	}
	return pal, notes
}
