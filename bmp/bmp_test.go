package bmp

import (
	"encoding/binary"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vexeldecode/vexel/imgmodel"
)

// fileHeader builds the 14-byte BITMAPFILEHEADER.
func fileHeader(fileSize, dataOffset uint32) []byte {
	b := make([]byte, 14)
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[2:6], fileSize)
	binary.LittleEndian.PutUint32(b[10:14], dataOffset)
	return b
}

// infoHeader builds a 40-byte BITMAPINFOHEADER.
func infoHeader(width, height int32, bitCount uint16, compression uint32, colorsUsed uint32) []byte {
	b := make([]byte, 40)
	binary.LittleEndian.PutUint32(b[0:4], 40)
	binary.LittleEndian.PutUint32(b[4:8], uint32(width))
	binary.LittleEndian.PutUint32(b[8:12], uint32(height))
	binary.LittleEndian.PutUint16(b[12:14], 1) // planes
	binary.LittleEndian.PutUint16(b[14:16], bitCount)
	binary.LittleEndian.PutUint32(b[16:20], compression)
	binary.LittleEndian.PutUint32(b[28:32], colorsUsed)
	return b
}

func paletteBytes(entries [][3]byte) []byte {
	b := make([]byte, 0, len(entries)*4)
	for _, e := range entries {
		b = append(b, e[0], e[1], e[2], 0)
	}
	return b
}

func TestDecode24bppBottomUp(t *testing.T) {
	dib := infoHeader(2, 2, 24, compRGB, 0)
	// file row0 (bottom, image y=1): blue, white
	row0 := []byte{255, 0, 0, 255, 255, 255, 0, 0}
	// file row1 (top, image y=0): red, green
	row1 := []byte{0, 0, 255, 0, 255, 0, 0, 0}
	pixels := append(append([]byte{}, row0...), row1...)
	dataOffset := uint32(14 + len(dib))
	data := append(fileHeader(dataOffset+uint32(len(pixels)), dataOffset), dib...)
	data = append(data, pixels...)

	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.Width, qt.Equals, 2)
	qt.Assert(t, info.Height, qt.Equals, 2)
	rgb, ok := img.(*imgmodel.RGB8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.RGB8", img)
	}
	cases := []struct {
		x, y          int
		r, g, b uint8
	}{
		{0, 0, 255, 0, 0},
		{1, 0, 0, 255, 0},
		{0, 1, 0, 0, 255},
		{1, 1, 255, 255, 255},
	}
	for _, c := range cases {
		r, g, b, _ := rgb.At(c.x, c.y).RGBA()
		if uint8(r>>8) != c.r || uint8(g>>8) != c.g || uint8(b>>8) != c.b {
			t.Errorf("At(%d,%d) = (%d,%d,%d), want (%d,%d,%d)", c.x, c.y, r>>8, g>>8, b>>8, c.r, c.g, c.b)
		}
	}
}

func TestDecodeIndexed8WithPalette(t *testing.T) {
	dib := infoHeader(2, 2, 8, compRGB, 2)
	pal := paletteBytes([][3]byte{{0, 0, 0}, {0, 0, 255}}) // BGR: black, red
	dataOffset := uint32(14 + len(dib) + len(pal))
	// file row0 (bottom, image y=1): idx1, idx0 -> red, black
	row0 := []byte{1, 0, 0, 0}
	// file row1 (top, image y=0): idx0, idx1 -> black, red
	row1 := []byte{0, 1, 0, 0}
	pixels := append(append([]byte{}, row0...), row1...)

	data := append(fileHeader(dataOffset+uint32(len(pixels)), dataOffset), dib...)
	data = append(data, pal...)
	data = append(data, pixels...)

	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.ColorType, qt.Equals, "indexed")
	idx, ok := img.(*imgmodel.Indexed8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.Indexed8", img)
	}
	if idx.Pix[0*2+0] != 0 || idx.Pix[0*2+1] != 1 {
		t.Errorf("row0 (top) = %v, want [0 1]", idx.Pix[0:2])
	}
	if idx.Pix[1*2+0] != 1 || idx.Pix[1*2+1] != 0 {
		t.Errorf("row1 (bottom) = %v, want [1 0]", idx.Pix[2:4])
	}
}

func TestDecodeRLE8(t *testing.T) {
	dib := infoHeader(4, 1, 8, compRLE8, 6)
	entries := [][3]byte{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 165, 255}} // index 5 = orange (BGR)
	pal := paletteBytes(entries)
	dataOffset := uint32(14 + len(dib) + len(pal))
	rle := []byte{4, 5, 0, 1} // run of 4 pixels at index 5, then end-of-bitmap

	data := append(fileHeader(dataOffset+uint32(len(rle)), dataOffset), dib...)
	data = append(data, pal...)
	data = append(data, rle...)

	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if info.Width != 4 || info.Height != 1 {
		t.Fatalf("got %dx%d, want 4x1", info.Width, info.Height)
	}
	idx, ok := img.(*imgmodel.Indexed8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.Indexed8", img)
	}
	for x := 0; x < 4; x++ {
		if idx.Pix[x] != 5 {
			t.Errorf("Pix[%d] = %d, want 5", x, idx.Pix[x])
		}
	}
}

func TestDecodeBitfields16(t *testing.T) {
	dib := infoHeader(1, 1, 16, compBitfields, 0)
	masks := make([]byte, 12)
	binary.LittleEndian.PutUint32(masks[0:4], 0xf800)
	binary.LittleEndian.PutUint32(masks[4:8], 0x07e0)
	binary.LittleEndian.PutUint32(masks[8:12], 0x001f)
	dataOffset := uint32(14 + len(dib) + len(masks))
	// pixel value 0xF800 -> pure red at 5-bit max
	pixel := []byte{0x00, 0xf8, 0x00, 0x00} // 2 data bytes + 2 padding
	data := append(fileHeader(dataOffset+uint32(len(pixel)), dataOffset), dib...)
	data = append(data, masks...)
	data = append(data, pixel...)

	img, _, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgb, ok := img.(*imgmodel.RGB8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.RGB8", img)
	}
	r, g, b, _ := rgb.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("got (%d,%d,%d), want (255,0,0)", r>>8, g>>8, b>>8)
	}
}

func TestDecodeTopDown(t *testing.T) {
	dib := infoHeader(2, -2, 24, compRGB, 0)
	// file row0 is now the top row directly (no bottom-up flip)
	row0 := []byte{0, 0, 255, 0, 255, 0, 0, 0} // red, green
	row1 := []byte{255, 0, 0, 255, 255, 255, 0, 0}
	pixels := append(append([]byte{}, row0...), row1...)
	dataOffset := uint32(14 + len(dib))
	data := append(fileHeader(dataOffset+uint32(len(pixels)), dataOffset), dib...)
	data = append(data, pixels...)

	img, _, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgb := img.(*imgmodel.RGB8)
	r, g, b, _ := rgb.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("top-down row0 at (0,0) = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestDecodeRejectsMissingSignature(t *testing.T) {
	_, _, err := Decode([]byte("not a bmp"), &imgmodel.Control{})
	if err == nil {
		t.Fatal("expected an error for a missing BM signature")
	}
}

func TestDecodeTruncatedPixelDataRecovers(t *testing.T) {
	dib := infoHeader(2, 2, 24, compRGB, 0)
	row0 := []byte{255, 0, 0, 255, 255, 255, 0, 0}
	row1 := []byte{0, 0, 255, 0, 255, 0, 0, 0}
	pixels := append(append([]byte{}, row0...), row1...)
	dataOffset := uint32(14 + len(dib))
	data := append(fileHeader(dataOffset+uint32(len(pixels)), dataOffset), dib...)
	data = append(data, pixels[:len(pixels)-5]...) // truncate into the second row

	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img == nil {
		t.Fatal("expected a non-nil best-effort image")
	}
	if len(info.Notes) == 0 {
		t.Error("expected at least one recovery note for truncated pixel data")
	}
}
