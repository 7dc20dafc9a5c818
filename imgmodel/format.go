package imgmodel

import "bytes"

// Format identifies the container a byte stream was classified as holding
// (spec §4.3).
type Format int

const (
	Unknown Format = iota
	JPEG
	PNG
	GIF
	BMP
	NetPBM
	TIFF
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case GIF:
		return "GIF"
	case BMP:
		return "BMP"
	case NetPBM:
		return "NetPBM"
	case TIFF:
		return "TIFF"
	}
	return "Unknown"
}

var (
	pngMagic = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpgMagic = []byte{0xff, 0xd8, 0xff}
	tiffLE   = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffBE   = []byte{0x4d, 0x4d, 0x00, 0x2a}
	bmpMagic = []byte{0x42, 0x4d}
)

// Probe reads up to the first 16 bytes and matches the first magic sequence
// it recognizes, per spec §4.3. No extension inspection is ever performed.
func Probe(data []byte) Format {
	head := data
	if len(head) > 16 {
		head = head[:16]
	}

	switch {
	case bytes.HasPrefix(head, jpgMagic):
		return JPEG
	case bytes.HasPrefix(head, pngMagic):
		return PNG
	case len(head) >= 6 && bytes.HasPrefix(head, []byte("GIF87a")):
		return GIF
	case len(head) >= 6 && bytes.HasPrefix(head, []byte("GIF89a")):
		return GIF
	case bytes.HasPrefix(head, bmpMagic):
		return BMP
	case len(head) >= 2 && head[0] == 'P' && head[1] >= '1' && head[1] <= '7':
		return NetPBM
	case bytes.HasPrefix(head, tiffLE):
		return TIFF
	case bytes.HasPrefix(head, tiffBE):
		return TIFF
	}
	return Unknown
}
