package png

import (
	"bytes"
	"hash/crc32"
	stdimage "image"
	"image/color"
	stdpng "image/png"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"

	"github.com/vexeldecode/vexel/imgmodel"
)

// encodeFixture builds a real PNG bitstream with the standard library's
// encoder, so this package's decoder is exercised against a conformant
// bitstream without needing an encoder of its own.
func encodeFixture(t *testing.T, img stdimage.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := stdpng.Encode(&buf, img); err != nil {
		t.Fatalf("stdlib png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRGBASolidColor(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 200})
		}
	}
	data := encodeFixture(t, src)

	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.Width, qt.Equals, 8)
	qt.Assert(t, info.Height, qt.Equals, 8)
	rgba, ok := img.(*imgmodel.RGBA8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.RGBA8", img)
	}
	got := rgba.Pix[:4]
	want := []uint8{10, 20, 30, 200}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("corner pixel mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeGrayscale16(t *testing.T) {
	src := stdimage.NewGray16(stdimage.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetGray16(x, y, color.Gray16{Y: 0x1234})
		}
	}
	data := encodeFixture(t, src)

	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.ColorType, qt.Equals, "grayscale")
	l16, ok := img.(*imgmodel.L16)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.L16", img)
	}
	qt.Assert(t, l16.Pix[:2], qt.DeepEquals, []uint8{0x12, 0x34})
}

// storedZlib wraps raw in a minimal RFC 1950 zlib stream using a single
// RFC 1951 stored (uncompressed) block, for tests that want a literal byte
// layout rather than a round-trip through a real deflate encoder.
func storedZlib(raw []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x78) // CMF: deflate, 32K window
	buf.WriteByte(0x01) // FLG: no dict, check bits satisfy the mod-31 rule
	buf.WriteByte(0x01) // BFINAL=1, BTYPE=00, rest of byte is stored-block padding
	n := len(raw)
	buf.WriteByte(byte(n))
	buf.WriteByte(byte(n >> 8))
	buf.WriteByte(byte(^n))
	buf.WriteByte(byte(^n >> 8))
	buf.Write(raw)
	sum := adler32Sum(raw)
	buf.WriteByte(byte(sum >> 24))
	buf.WriteByte(byte(sum >> 16))
	buf.WriteByte(byte(sum >> 8))
	buf.WriteByte(byte(sum))
	return buf.Bytes()
}

func adler32Sum(data []byte) uint32 {
	const mod = 65521
	a, b := uint32(1), uint32(0)
	for _, c := range data {
		a = (a + uint32(c)) % mod
		b = (b + a) % mod
	}
	return b<<16 | a
}

func writeChunk(buf *bytes.Buffer, typ string, body []byte) {
	length := len(body)
	buf.WriteByte(byte(length >> 24))
	buf.WriteByte(byte(length >> 16))
	buf.WriteByte(byte(length >> 8))
	buf.WriteByte(byte(length))
	buf.WriteString(typ)
	buf.Write(body)
	crc := crc32.ChecksumIEEE(append([]byte(typ), body...))
	buf.WriteByte(byte(crc >> 24))
	buf.WriteByte(byte(crc >> 16))
	buf.WriteByte(byte(crc >> 8))
	buf.WriteByte(byte(crc))
}

func ihdrBytes(w, h, depth, colorType, interlace int) []byte {
	b := make([]byte, 13)
	b[0], b[1], b[2], b[3] = byte(w>>24), byte(w>>16), byte(w>>8), byte(w)
	b[4], b[5], b[6], b[7] = byte(h>>24), byte(h>>16), byte(h>>8), byte(h)
	b[8] = byte(depth)
	b[9] = byte(colorType)
	b[10] = 0 // compression method
	b[11] = 0 // filter method
	b[12] = byte(interlace)
	return b
}

// buildRaw2x2 constructs a minimal, hand-written 2x2 RGBA8 PNG (uncompressed
// deflate stored block, filter byte 0 on every row) to exercise the decoder
// against a literal byte layout rather than a round-trip through an encoder.
func buildRaw2x2() []byte {
	pixels := []byte{
		0, 255, 0, 0, 255, 0, 255, 0, 255, // filter None, row0: red, green
		0, 0, 0, 255, 255, 255, 255, 255, 0, // filter None, row1: blue, transparent white
	}
	zlibStream := storedZlib(pixels)

	var buf bytes.Buffer
	buf.Write(signature[:])
	writeChunk(&buf, "IHDR", ihdrBytes(2, 2, 8, 6, 0))
	writeChunk(&buf, "IDAT", zlibStream)
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func TestDecodeHandwrittenRGBA2x2(t *testing.T) {
	data := buildRaw2x2()
	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.Width, qt.Equals, 2)
	qt.Assert(t, info.Height, qt.Equals, 2)
	rgba, ok := img.(*imgmodel.RGBA8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.RGBA8", img)
	}
	want := []uint8{255, 0, 0, 255, 0, 255, 0, 255, 0, 0, 255, 255, 255, 255, 255, 0}
	if diff := cmp.Diff(want, rgba.Pix); diff != "" {
		t.Errorf("pixel bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCorruptedCRCRecovers(t *testing.T) {
	data := buildRaw2x2()
	idx := bytes.Index(data, []byte("IDAT"))
	if idx < 0 {
		t.Fatal("IDAT chunk not found in fixture")
	}
	// Corrupt a byte inside the CRC field, which sits right after the chunk
	// data. We locate it precisely via the chunk length field preceding
	// "IDAT".
	lengthOff := idx - 4
	length := int(data[lengthOff])<<24 | int(data[lengthOff+1])<<16 | int(data[lengthOff+2])<<8 | int(data[lengthOff+3])
	crcStart := idx + 4 + length
	data[crcStart] ^= 0xff

	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img == nil {
		t.Fatal("expected a non-nil best-effort image")
	}
	found := false
	for _, n := range info.Notes {
		if n == "png: CRC mismatch in IDAT" {
			found = true
		}
	}
	if !found {
		t.Errorf("notes %v missing CRC mismatch entry", info.Notes)
	}
}

func TestDecodeRejectsMissingSignature(t *testing.T) {
	_, _, err := Decode([]byte("not a png"), &imgmodel.Control{})
	if err == nil {
		t.Fatal("expected an error for a missing PNG signature")
	}
}

func TestDecodeTruncatedIDATRecovers(t *testing.T) {
	src := stdimage.NewNRGBA(stdimage.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 5, A: 255})
		}
	}
	data := encodeFixture(t, src)
	truncated := data[:len(data)-20]

	img, info, err := Decode(truncated, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img == nil {
		t.Fatal("expected a non-nil best-effort image")
	}
	if len(info.Notes) == 0 {
		t.Error("expected at least one recovery note for truncated input")
	}
}
