package tiff

import "github.com/vexeldecode/vexel/imgmodel"

// Decode implements imgmodel.DecodeFunc for baseline, uncompressed TIFF
// (spec §4.9): byte-order detection, the first IFD's tag set, and strip
// concatenation into a gray/RGB(A) raster.
func Decode(data []byte, ctl *imgmodel.Control) (imgmodel.Image, *imgmodel.ImageInfo, error) {
	if ctl == nil {
		ctl = &imgmodel.Control{}
	}
	info := &imgmodel.ImageInfo{Format: imgmodel.TIFF}

	be, ok := byteOrder(data)
	if !ok {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.TIFF, "missing II/MM byte-order marker")
	}
	if len(data) < 8 {
		return nil, info, imgmodel.NewError(imgmodel.UnexpectedEOF, imgmodel.TIFF, "file shorter than the header")
	}

	firstIFD := readU32(data[4:8], be)
	entries, _, notes := parseIFD(data, firstIFD, be)
	for _, n := range notes {
		info.AddNote(n)
	}
	if entries == nil {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.TIFF, "unreadable first IFD")
	}

	width, ok := firstVal(entries, tImageWidth)
	if !ok {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.TIFF, "missing ImageWidth tag")
	}
	height, ok := firstVal(entries, tImageLength)
	if !ok {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.TIFF, "missing ImageLength tag")
	}

	compression := firstValOr(entries, tCompression, compNone)
	if compression != compNone {
		return nil, info, imgmodel.NewError(imgmodel.UnsupportedFeature, imgmodel.TIFF, "only Compression=1 (none) is supported")
	}

	samplesPerPixel := firstValOr(entries, tSamplesPerPixel, 1)
	photometric := firstValOr(entries, tPhotometric, photoBlackIsZero)

	bitDepth := 8
	if bps, ok := entries[tBitsPerSample]; ok && len(bps) > 0 {
		bitDepth = int(bps[0])
	}
	if bitDepth != 8 && bitDepth != 16 {
		info.AddNote("tiff: BitsPerSample %d is not 8 or 16, treating samples as 8-bit", bitDepth)
		bitDepth = 8
	}

	planar := firstValOr(entries, tPlanarConfig, planarChunky)
	if planar != planarChunky {
		return nil, info, imgmodel.NewError(imgmodel.UnsupportedFeature, imgmodel.TIFF, "planar (non-chunky) sample layout is not supported")
	}

	if err := imgmodel.CheckDimensions(imgmodel.TIFF, width, height, samplesPerPixel*(bitDepth/8)); err != nil {
		return nil, info, err
	}

	info.Width, info.Height = width, height
	info.BitDepth = bitDepth
	info.ColorType = colorTypeFor(samplesPerPixel, photometric)

	pix, snotes := collectStrips(data, entries, height)
	for _, n := range snotes {
		info.AddNote(n)
	}

	img, bnotes := buildImage(pix, width, height, samplesPerPixel, bitDepth, photometric, be)
	for _, n := range bnotes {
		info.AddNote(n)
	}
	if img == nil {
		return nil, info, imgmodel.NewError(imgmodel.UnsupportedFeature, imgmodel.TIFF, "unsupported pixel layout")
	}
	return img, info, nil
}

func colorTypeFor(samples, photometric int) string {
	switch {
	case samples == 1:
		return "grayscale"
	case samples == 3:
		return "rgb"
	case samples == 4:
		return "rgba"
	}
	return "unknown"
}

// collectStrips concatenates every StripOffsets[i]:+StripByteCounts[i]
// run, in order, clamping any strip that runs past the end of the file and
// recording a note instead of failing (spec §7: truncation is recovered,
// not a hard error).
func collectStrips(data []byte, entries map[uint16][]uint32, height int) ([]byte, []string) {
	var notes []string
	offsets := entries[tStripOffsets]
	counts := entries[tStripByteCounts]
	if len(offsets) == 0 {
		return nil, append(notes, "tiff: no StripOffsets tag, producing an empty image")
	}

	var out []byte
	for i, off := range offsets {
		var n uint32
		if i < len(counts) {
			n = counts[i]
		}
		start := int(off)
		if start < 0 || start > len(data) {
			notes = append(notes, "tiff: strip offset runs past end of file, skipping strip")
			continue
		}
		end := start + int(n)
		if end > len(data) {
			notes = append(notes, "tiff: strip truncated, using partial data")
			end = len(data)
		}
		out = append(out, data[start:end]...)
	}
	return out, notes
}
