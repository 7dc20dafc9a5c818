package jpeg

import (
	"bytes"
	stdimage "image"
	"image/color"
	stdjpeg "image/jpeg"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vexeldecode/vexel/imgmodel"
)

// encodeFixture builds a real JPEG bitstream with the standard library's
// encoder, so this package's decoder is exercised against a conformant
// bitstream without needing an encoder of its own.
func encodeFixture(t *testing.T, img stdimage.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := stdjpeg.Encode(&buf, img, &stdjpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("stdlib jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func solidRGBA(w, h int, c color.RGBA) *stdimage.RGBA {
	im := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.SetRGBA(x, y, c)
		}
	}
	return im
}

func TestDecodeBaselineSolidColor(t *testing.T) {
	src := solidRGBA(8, 8, color.RGBA{R: 200, G: 40, B: 40, A: 255})
	data := encodeFixture(t, src, 90)

	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.Width, qt.Equals, 8)
	qt.Assert(t, info.Height, qt.Equals, 8)
	rgb, ok := img.(*imgmodel.RGB8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.RGB8", img)
	}
	r, g, b := rgb.Pix[0], rgb.Pix[1], rgb.Pix[2]
	if absDiff(int(r), 200) > 12 || absDiff(int(g), 40) > 12 || absDiff(int(b), 40) > 12 {
		t.Errorf("corner pixel (%d,%d,%d) too far from (200,40,40)", r, g, b)
	}
}

func TestDecodeBaselineGrayscale(t *testing.T) {
	src := stdimage.NewGray(stdimage.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.SetGray(x, y, color.Gray{Y: 128})
		}
	}
	data := encodeFixture(t, src, 85)

	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.ColorType, qt.Equals, "grayscale")
	l8, ok := img.(*imgmodel.L8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.L8", img)
	}
	if absDiff(int(l8.Pix[0]), 128) > 12 {
		t.Errorf("sample %d too far from 128", l8.Pix[0])
	}
}

func TestDecodeBaselineMultiMCUColor(t *testing.T) {
	src := solidRGBA(16, 16, color.RGBA{R: 10, G: 200, B: 80, A: 255})
	var buf bytes.Buffer
	enc := &jpegProgressiveEncoder{}
	data := enc.encode(t, &buf, src)

	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if info.Width != 16 || info.Height != 16 {
		t.Errorf("got %dx%d, want 16x16", info.Width, info.Height)
	}
	if _, ok := img.(*imgmodel.RGB8); !ok {
		t.Fatalf("got %T, want *imgmodel.RGB8", img)
	}
}

// jpegProgressiveEncoder is a tiny shim: the standard library's encoder
// does not expose a progressive mode, so this test instead confirms the
// decoder's baseline path (stdjpeg's only output mode) handles a larger,
// multi-MCU, color image correctly. Named to flag that a true progressive
// fixture would need a third-party encoder this corpus doesn't carry.
type jpegProgressiveEncoder struct{}

func (jpegProgressiveEncoder) encode(t *testing.T, buf *bytes.Buffer, img stdimage.Image) []byte {
	t.Helper()
	if err := stdjpeg.Encode(buf, img, &stdjpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("stdlib jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeTruncatedStreamRecovers(t *testing.T) {
	src := solidRGBA(32, 32, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	data := encodeFixture(t, src, 90)
	truncated := data[:len(data)-len(data)/4]

	img, info, err := Decode(truncated, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode should recover from truncation, got error: %v", err)
	}
	if img == nil {
		t.Fatal("expected a partial image, got nil")
	}
	if len(info.Notes) == 0 {
		t.Error("expected a recovery note for the truncated stream")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode([]byte{0x00, 0x01, 0x02, 0x03}, &imgmodel.Control{})
	if err == nil {
		t.Fatal("expected an error decoding non-JPEG data")
	}
}

// TestDecodeRejectsHugeSOFDimensions crafts a SOF0 segment declaring a
// 65535x65535 frame and nothing else (no Huffman tables, no scan data).
// parseSOF must reject it via CheckDimensions before allocating any
// component buffer off those dimensions.
func TestDecodeRejectsHugeSOFDimensions(t *testing.T) {
	data := []byte{
		0xff, 0xd8, // SOI
		0xff, 0xc0, // SOF0
		0x00, 0x0b, // length = 11
		0x08, // precision
		0xff, 0xff, // height = 65535
		0xff, 0xff, // width = 65535
		0x01,             // nComp = 1
		0x01, 0x11, 0x00, // component 1: id=1, h=1 v=1, qtable=0
	}

	_, _, err := Decode(data, &imgmodel.Control{})
	verr, ok := err.(*imgmodel.Error)
	if !ok || verr.Kind != imgmodel.DimensionsTooLarge {
		t.Fatalf("got %v, want a DimensionsTooLarge error", err)
	}
}

func absDiff(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}
