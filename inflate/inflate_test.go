package inflate

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"testing"

	qt "github.com/frankban/quicktest"
)

// deflateFixture compresses want with the standard library's encoder so the
// tests exercise this package's decoder against a real, known-good bitstream
// without needing an encoder of its own.
func deflateFixture(t *testing.T, want []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := w.Write(want); err != nil {
		t.Fatalf("flate write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("flate close: %v", err)
	}
	return buf.Bytes()
}

func TestInflateRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":      {},
		"short":      []byte("hi"),
		"repeating":  bytes.Repeat([]byte("abcabcabcabc"), 50),
		"binary":     {0, 1, 2, 3, 4, 5, 250, 251, 252, 253, 254, 255, 0, 0, 0},
		"paragraph":  []byte("the quick brown fox jumps over the lazy dog, the quick brown fox jumps again"),
		"singleByte": {0x42},
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			compressed := deflateFixture(t, want)
			got, notes := Inflate(compressed)
			qt.Assert(t, notes, qt.HasLen, 0)
			qt.Assert(t, bytes.Equal(got, want), qt.Equals, true)
		})
	}
}

func TestInflateStoredBlock(t *testing.T) {
	want := []byte("stored block content, no huffman here")
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.NoCompression)
	w.Write(want)
	w.Close()

	got, notes := Inflate(buf.Bytes())
	qt.Assert(t, notes, qt.HasLen, 0)
	qt.Assert(t, bytes.Equal(got, want), qt.Equals, true)
}

func TestInflateEmptyInputProducesNote(t *testing.T) {
	got, notes := Inflate(nil)
	if got != nil {
		t.Errorf("expected nil output for empty input, got %v", got)
	}
	if len(notes) == 0 {
		t.Error("expected a note explaining the empty input")
	}
}

func TestInflateTruncatedStreamRecoversPartialOutput(t *testing.T) {
	want := bytes.Repeat([]byte("recoverable partial output "), 20)
	compressed := deflateFixture(t, want)

	truncated := compressed[:len(compressed)-len(compressed)/3]
	got, notes := Inflate(truncated)

	if len(notes) == 0 {
		t.Error("expected a recovery note for a truncated stream")
	}
	if len(got) == 0 {
		t.Error("expected some partial output even from a truncated stream")
	}
	if len(got) > len(want) {
		t.Errorf("partial output %d bytes longer than original %d bytes", len(got), len(want))
	}
}

func TestZlibRoundTrip(t *testing.T) {
	want := []byte("zlib-wrapped content with a trailing Adler-32 checksum")
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(want)
	w.Close()

	got, notes, err := Zlib(buf.Bytes())
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, notes, qt.HasLen, 0)
	qt.Assert(t, bytes.Equal(got, want), qt.Equals, true)
}

func TestZlibRejectsBadHeader(t *testing.T) {
	_, _, err := Zlib([]byte{0x00, 0x00, 0x00, 0x00})
	if err != ErrNotZlib {
		t.Errorf("got err %v, want ErrNotZlib", err)
	}
}

func TestZlibChecksumMismatchIsNoteNotError(t *testing.T) {
	want := []byte("checksum will be corrupted after compression")
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(want)
	w.Close()

	corrupted := append([]byte(nil), buf.Bytes()...)
	corrupted[len(corrupted)-1] ^= 0xff

	got, notes, err := Zlib(corrupted)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, bytes.Equal(got, want), qt.Equals, true)
	found := false
	for _, n := range notes {
		if n == "inflate: zlib Adler-32 checksum mismatch" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a checksum-mismatch note, got %v", notes)
	}
}
