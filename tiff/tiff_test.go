package tiff

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vexeldecode/vexel/imgmodel"
)

type tagEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	val   uint32
}

func u16le(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func u32le(v uint32) []byte { return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)} }

func entryBytes(e tagEntry) []byte {
	b := make([]byte, 0, 12)
	b = append(b, u16le(e.tag)...)
	b = append(b, u16le(e.typ)...)
	b = append(b, u32le(e.count)...)
	b = append(b, u32le(e.val)...)
	return b
}

// buildTIFF assembles a little-endian TIFF with a single IFD followed by
// one strip of pixel data. A StripOffsets(273) entry, if present, has its
// value patched in after the IFD's length (and therefore the strip's file
// offset) is known.
func buildTIFF(entries []tagEntry, strip []byte) []byte {
	ifd := u16le(uint16(len(entries)))
	for _, e := range entries {
		ifd = append(ifd, entryBytes(e)...)
	}
	ifd = append(ifd, u32le(0)...) // no next IFD

	stripOffset := uint32(8 + len(ifd))
	for i, e := range entries {
		if e.tag == tStripOffsets {
			pos := 2 + i*12 + 8
			copy(ifd[pos:pos+4], u32le(stripOffset))
		}
	}

	data := make([]byte, 0, 8+len(ifd)+len(strip))
	data = append(data, 'I', 'I', 0x2a, 0x00)
	data = append(data, u32le(8)...)
	data = append(data, ifd...)
	data = append(data, strip...)
	return data
}

func grayEntries(w, h uint32, photometric uint32, stripBytes uint32) []tagEntry {
	return []tagEntry{
		{tImageWidth, dtLong, 1, w},
		{tImageLength, dtLong, 1, h},
		{tBitsPerSample, dtShort, 1, 8},
		{tCompression, dtShort, 1, compNone},
		{tPhotometric, dtShort, 1, photometric},
		{tStripOffsets, dtLong, 1, 0}, // patched by buildTIFF
		{tSamplesPerPixel, dtShort, 1, 1},
		{tRowsPerStrip, dtLong, 1, h},
		{tStripByteCounts, dtLong, 1, stripBytes},
	}
}

func TestDecodeGray8BlackIsZero(t *testing.T) {
	strip := []byte{10, 20, 30, 40}
	data := buildTIFF(grayEntries(2, 2, photoBlackIsZero, 4), strip)

	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.Width, qt.Equals, 2)
	qt.Assert(t, info.Height, qt.Equals, 2)
	l8, ok := img.(*imgmodel.L8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.L8", img)
	}
	qt.Assert(t, l8.Pix, qt.DeepEquals, strip)
}

func TestDecodeGray8WhiteIsZeroInverts(t *testing.T) {
	strip := []byte{0, 255}
	data := buildTIFF(grayEntries(2, 1, photoWhiteIsZero, 2), strip)

	img, _, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	l8 := img.(*imgmodel.L8)
	if l8.Pix[0] != 255 || l8.Pix[1] != 0 {
		t.Errorf("got %v, want [255 0] (WhiteIsZero inverted)", l8.Pix)
	}
}

func TestDecodeRGB8(t *testing.T) {
	entries := []tagEntry{
		{tImageWidth, dtLong, 1, 1},
		{tImageLength, dtLong, 1, 1},
		{tBitsPerSample, dtShort, 1, 8},
		{tCompression, dtShort, 1, compNone},
		{tPhotometric, dtShort, 1, photoRGB},
		{tStripOffsets, dtLong, 1, 0},
		{tSamplesPerPixel, dtShort, 1, 3},
		{tRowsPerStrip, dtLong, 1, 1},
		{tStripByteCounts, dtLong, 1, 3},
	}
	data := buildTIFF(entries, []byte{10, 20, 30})

	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.ColorType, qt.Equals, "rgb")
	rgb := img.(*imgmodel.RGB8)
	qt.Assert(t, rgb.Pix, qt.DeepEquals, []uint8{10, 20, 30})
}

func TestDecodeBigEndian(t *testing.T) {
	// Hand-build a big-endian ("MM") single-pixel grayscale file; buildTIFF
	// only emits little-endian, so this one is assembled directly.
	entries := grayEntries(1, 1, photoBlackIsZero, 1)
	ifd := []byte{0, byte(len(entries))}
	for _, e := range entries {
		ifd = append(ifd, byte(e.tag>>8), byte(e.tag))
		ifd = append(ifd, byte(e.typ>>8), byte(e.typ))
		ifd = append(ifd, byte(e.count>>24), byte(e.count>>16), byte(e.count>>8), byte(e.count))
		if e.typ == dtShort { // an inline SHORT is left-justified in the 4-byte field
			ifd = append(ifd, byte(e.val>>8), byte(e.val), 0, 0)
		} else {
			ifd = append(ifd, byte(e.val>>24), byte(e.val>>16), byte(e.val>>8), byte(e.val))
		}
	}
	ifd = append(ifd, 0, 0, 0, 0)

	stripOffset := uint32(8 + len(ifd))
	for i, e := range entries {
		if e.tag == tStripOffsets {
			pos := 2 + i*12 + 8
			ifd[pos], ifd[pos+1], ifd[pos+2], ifd[pos+3] = byte(stripOffset>>24), byte(stripOffset>>16), byte(stripOffset>>8), byte(stripOffset)
		}
	}

	data := append([]byte{'M', 'M', 0x00, 0x2a, 0, 0, 0, 8}, ifd...)
	data = append(data, 0x42)

	img, _, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	l8 := img.(*imgmodel.L8)
	if l8.Pix[0] != 0x42 {
		t.Errorf("got %#x, want 0x42", l8.Pix[0])
	}
}

func TestDecodeRejectsMissingMagic(t *testing.T) {
	_, _, err := Decode([]byte("not a tiff file at all"), &imgmodel.Control{})
	if err == nil {
		t.Fatal("expected an error for a missing II/MM marker")
	}
}

func TestDecodeRejectsUnsupportedCompression(t *testing.T) {
	entries := grayEntries(2, 2, photoBlackIsZero, 4)
	for i := range entries {
		if entries[i].tag == tCompression {
			entries[i].val = 5 // LZW, not implemented
		}
	}
	data := buildTIFF(entries, []byte{1, 2, 3, 4})

	_, _, err := Decode(data, &imgmodel.Control{})
	verr, ok := err.(*imgmodel.Error)
	if !ok || verr.Kind != imgmodel.UnsupportedFeature {
		t.Fatalf("got %v, want an UnsupportedFeature error", err)
	}
}

func TestDecodeTruncatedStripRecovers(t *testing.T) {
	data := buildTIFF(grayEntries(4, 4, photoBlackIsZero, 16), []byte{1, 2, 3})

	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img == nil {
		t.Fatal("expected a non-nil best-effort image")
	}
	if len(info.Notes) == 0 {
		t.Error("expected at least one recovery note for truncated strip data")
	}
}
