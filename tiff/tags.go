package tiff

// Tag numbers this package consumes, named and numbered per the TIFF 6.0
// tag registry (grounded on the mdouchement/tiff constant table).
const (
	tImageWidth      = 256
	tImageLength     = 257
	tBitsPerSample   = 258
	tCompression     = 259
	tPhotometric     = 262
	tStripOffsets    = 273
	tSamplesPerPixel = 277
	tRowsPerStrip    = 278
	tStripByteCounts = 279
	tPlanarConfig    = 284
)

// Field data types (TIFF 6.0 §2); typeSize below gives every one its byte
// width, and counts an unknown type as 1 byte.
const (
	dtByte      = 1
	dtASCII     = 2
	dtShort     = 3
	dtLong      = 4
	dtRational  = 5
	dtSByte     = 6
	dtUndefined = 7
	dtSShort    = 8
	dtSLong     = 9
	dtSRational = 10
	dtFloat     = 11
	dtDouble    = 12
)

func typeSize(typ uint16) int {
	switch typ {
	case dtByte, dtASCII, dtSByte, dtUndefined:
		return 1
	case dtShort, dtSShort:
		return 2
	case dtLong, dtSLong, dtFloat:
		return 4
	case dtRational, dtSRational, dtDouble:
		return 8
	}
	return 1
}

// Compression values (tag 259). Only compNone is implemented; anything
// else is an UnsupportedFeature (spec §4.9).
const (
	compNone = 1
)

// PhotometricInterpretation values (tag 262) this package understands.
const (
	photoWhiteIsZero = 0
	photoBlackIsZero = 1
	photoRGB         = 2
)

// PlanarConfiguration values (tag 284).
const (
	planarChunky = 1
	planarPlanar = 2
)
