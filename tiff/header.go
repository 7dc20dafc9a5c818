// Package tiff decodes baseline TIFF: byte-order-aware IFD walking, the
// ImageWidth/ImageLength/BitsPerSample/PhotometricInterpretation/
// SamplesPerPixel/RowsPerStrip/StripOffsets/StripByteCounts/
// PlanarConfiguration tag set, and uncompressed strip concatenation, with
// the same best-effort recovery policy as the rest of Vexel.
package tiff

func readU16(b []byte, be bool) uint16 {
	if be {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

func readU32(b []byte, be bool) uint32 {
	if be {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

// byteOrder reports the file's declared byte order from its 4-byte magic
// ("II\x2A\x00" little-endian, "MM\x00\x2A" big-endian), per the TIFF 6.0
// spec.
func byteOrder(data []byte) (be bool, ok bool) {
	if len(data) < 4 {
		return false, false
	}
	switch string(data[:4]) {
	case "II\x2a\x00":
		return false, true
	case "MM\x00\x2a":
		return true, true
	}
	return false, false
}
