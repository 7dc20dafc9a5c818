package netpbm

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vexeldecode/vexel/imgmodel"
)

func TestDecodeASCIIBitmap(t *testing.T) {
	data := []byte("P1\n# a comment\n2 2\n0 1\n1 0\n")
	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.Width, qt.Equals, 2)
	qt.Assert(t, info.Height, qt.Equals, 2)
	l8, ok := img.(*imgmodel.L8)
	if !ok {
		t.Fatalf("got %T, want *imgmodel.L8", img)
	}
	qt.Assert(t, l8.Pix, qt.DeepEquals, []uint8{255, 0, 0, 255})
}

func TestDecodeASCIIGray(t *testing.T) {
	data := []byte("P2\n2 1\n255\n0 128\n")
	img, _, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	l8 := img.(*imgmodel.L8)
	if l8.Pix[0] != 0 || l8.Pix[1] != 128 {
		t.Errorf("got %v, want [0 128]", l8.Pix)
	}
}

func TestDecodeASCIIRGB(t *testing.T) {
	data := []byte("P3\n1 1\n255\n10 20 30\n")
	img, info, err := Decode(data, &imgmodel.Control{})
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, info.ColorType, qt.Equals, "rgb")
	rgb := img.(*imgmodel.RGB8)
	r, g, b, _ := rgb.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("got (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}

func TestDecodeBinaryBitmap(t *testing.T) {
	data := append([]byte("P4\n8 1\n"), 0xA5)
	img, _, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	l8 := img.(*imgmodel.L8)
	want := []uint8{0, 255, 0, 255, 255, 0, 255, 0}
	for i, w := range want {
		if l8.Pix[i] != w {
			t.Errorf("Pix[%d] = %d, want %d", i, l8.Pix[i], w)
		}
	}
}

func TestDecodeBinaryGray8bit(t *testing.T) {
	data := append([]byte("P5\n2 1\n255\n"), 100, 200)
	img, _, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	l8 := img.(*imgmodel.L8)
	if l8.Pix[0] != 100 || l8.Pix[1] != 200 {
		t.Errorf("got %v, want [100 200]", l8.Pix)
	}
}

func TestDecodeBinaryGray16bit(t *testing.T) {
	data := append([]byte("P5\n1 1\n65535\n"), 0x12, 0x34)
	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if info.BitDepth != 16 {
		t.Errorf("got BitDepth %d, want 16", info.BitDepth)
	}
	l16 := img.(*imgmodel.L16)
	if l16.Pix[0] != 0x12 || l16.Pix[1] != 0x34 {
		t.Errorf("got bytes (%#x,%#x), want (0x12,0x34)", l16.Pix[0], l16.Pix[1])
	}
}

func TestDecodeBinaryRGB(t *testing.T) {
	data := append([]byte("P6\n1 1\n255\n"), 10, 20, 30)
	img, _, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rgb := img.(*imgmodel.RGB8)
	r, g, b, _ := rgb.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("got (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}

func TestDecodePAMRGB(t *testing.T) {
	header := "P7\nWIDTH 1\nHEIGHT 1\nDEPTH 3\nMAXVAL 255\nTUPLTYPE RGB\nENDHDR\n"
	data := append([]byte(header), 1, 2, 3)
	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if info.ColorType != "rgb" {
		t.Errorf("got ColorType %q, want rgb", info.ColorType)
	}
	rgb := img.(*imgmodel.RGB8)
	r, g, b, _ := rgb.At(0, 0).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Errorf("got (%d,%d,%d), want (1,2,3)", r>>8, g>>8, b>>8)
	}
}

func TestDecodePAMRGBA(t *testing.T) {
	header := "P7\nWIDTH 1\nHEIGHT 1\nDEPTH 4\nMAXVAL 255\nTUPLTYPE RGB_ALPHA\nENDHDR\n"
	data := append([]byte(header), 10, 20, 30, 40)
	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if info.ColorType != "rgba" {
		t.Errorf("got ColorType %q, want rgba", info.ColorType)
	}
	rgba := img.(*imgmodel.RGBA8)
	if rgba.Pix[0] != 10 || rgba.Pix[1] != 20 || rgba.Pix[2] != 30 || rgba.Pix[3] != 40 {
		t.Errorf("got %v, want [10 20 30 40]", rgba.Pix[:4])
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode([]byte("not a netpbm"), &imgmodel.Control{})
	if err == nil {
		t.Fatal("expected an error for a missing P1-P7 magic")
	}
}

func TestDecodeTruncatedDataRecovers(t *testing.T) {
	data := []byte("P2\n4 4\n255\n1 2 3 4 5 6")
	img, info, err := Decode(data, &imgmodel.Control{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img == nil {
		t.Fatal("expected a non-nil best-effort image")
	}
	if len(info.Notes) == 0 {
		t.Error("expected at least one recovery note for truncated sample data")
	}
}
