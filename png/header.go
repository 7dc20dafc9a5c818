package png

import "github.com/vexeldecode/vexel/bitio"

// ihdrData is the parsed IHDR chunk (ITU W3C PNG §11.2.2), grounded on the
// teacher pack's XC-Zero/simple-png IHDR struct and field order.
type ihdrData struct {
	width, height int
	bitDepth      int
	colorType     int
	interlace     int
}

// channels reports samples per pixel for this IHDR's color type (PNG §11.2.2
// Table: 0 gray, 2 truecolor, 3 indexed, 4 gray+alpha, 6 truecolor+alpha).
func (h *ihdrData) channels() int {
	switch h.colorType {
	case 0:
		return 1
	case 2:
		return 3
	case 3:
		return 1
	case 4:
		return 2
	case 6:
		return 4
	}
	return 0
}

func validColorType(ct int) bool {
	switch ct {
	case 0, 2, 3, 4, 6:
		return true
	}
	return false
}

func validBitDepth(ct, depth int) bool {
	switch depth {
	case 1, 2, 4:
		return ct == 0 || ct == 3
	case 8, 16:
		return true
	}
	return false
}

func parseIHDR(body []byte) (*ihdrData, []string) {
	var notes []string
	if len(body) != 13 {
		return nil, append(notes, "png: IHDR has wrong length, treating as missing")
	}
	br := bitio.NewByteReader(body)
	w, _ := br.ReadU32BE()
	h, _ := br.ReadU32BE()
	depth, _ := br.ReadU8()
	ct, _ := br.ReadU8()
	compression, _ := br.ReadU8()
	filter, _ := br.ReadU8()
	interlace, _ := br.ReadU8()

	ih := &ihdrData{width: int(w), height: int(h), bitDepth: int(depth), colorType: int(ct), interlace: int(interlace)}

	if !validColorType(ih.colorType) {
		notes = append(notes, "png: unrecognized IHDR color type, treating as truecolor")
		ih.colorType = 2
	}
	if !validBitDepth(ih.colorType, ih.bitDepth) {
		notes = append(notes, "png: unsupported bit depth for color type, clamping to 8")
		ih.bitDepth = 8
	}
	if compression != 0 {
		notes = append(notes, "png: unrecognized compression method, assuming deflate")
	}
	if filter != 0 {
		notes = append(notes, "png: unrecognized filter method, assuming adaptive")
	}
	if ih.interlace != 0 && ih.interlace != 1 {
		notes = append(notes, "png: unrecognized interlace method, assuming none")
		ih.interlace = 0
	}
	return ih, notes
}
