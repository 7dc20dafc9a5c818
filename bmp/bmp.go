package bmp

import "github.com/vexeldecode/vexel/imgmodel"

// dimBytesPerPixel estimates worst-case bytes-per-pixel for the
// CheckDimensions guard, using the widest variant this bit depth decodes to.
func dimBytesPerPixel(h *header) int {
	if h.bitCount == 64 {
		return 8
	}
	return 4
}

// Decode implements imgmodel.DecodeFunc for BMP.
func Decode(data []byte, ctl *imgmodel.Control) (imgmodel.Image, *imgmodel.ImageInfo, error) {
	if ctl == nil {
		ctl = &imgmodel.Control{}
	}
	info := &imgmodel.ImageInfo{Format: imgmodel.BMP}

	h, hnotes := parseHeader(data)
	for _, n := range hnotes {
		info.AddNote(n)
	}
	if h == nil {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.BMP, "unparseable BMP header")
	}
	if h.compression == compJPEG || h.compression == compPNG {
		return nil, info, imgmodel.NewError(imgmodel.UnsupportedFeature, imgmodel.BMP, "embedded JPEG/PNG compression is not supported")
	}
	if err := imgmodel.CheckDimensions(imgmodel.BMP, h.width, h.height, dimBytesPerPixel(h)); err != nil {
		return nil, info, err
	}

	info.Width, info.Height = h.width, h.height
	info.BitDepth = h.bitCount

	var pal []colorEntry
	if h.bitCount <= 8 {
		var pnotes []string
		pal, pnotes = paletteAt(data, h)
		for _, n := range pnotes {
			info.AddNote(n)
		}
	}

	pixStart := h.dataOffset
	if pixStart < 0 {
		pixStart = 0
	}
	if pixStart > len(data) {
		info.AddNote("bmp: declared pixel data offset runs past end of file")
		pixStart = len(data)
	}
	pixData := data[pixStart:]

	img, inotes := decodePixels(pixData, h, pal)
	for _, n := range inotes {
		info.AddNote(n)
	}
	if img == nil {
		return nil, info, imgmodel.NewError(imgmodel.UnsupportedFeature, imgmodel.BMP, "unsupported bit depth/compression combination")
	}

	switch img.(type) {
	case *imgmodel.Indexed8:
		info.ColorType = "indexed"
	case *imgmodel.RGB8:
		info.ColorType = "rgb"
	case *imgmodel.RGBA8, *imgmodel.RGBA16:
		info.ColorType = "rgba"
	}

	return img, info, nil
}

func decodePixels(data []byte, h *header, pal []colorEntry) (imgmodel.Image, []string) {
	switch {
	case h.bitCount == 8 && h.compression == compRLE8:
		return decodeRLEIndexed(data, h, pal, false)
	case h.bitCount == 4 && h.compression == compRLE4:
		return decodeRLEIndexed(data, h, pal, true)
	case h.bitCount <= 8:
		return decodeUncompressedIndexed(data, h, pal)
	case h.bitCount == 64:
		return decode64(data, h)
	case h.bitCount == 16, h.bitCount == 32:
		return decodeMasked(data, h)
	case h.bitCount == 24:
		return decode24(data, h)
	}
	return nil, []string{"bmp: unsupported bit depth"}
}
