package netpbm

import "github.com/vexeldecode/vexel/imgmodel"

// Decode implements imgmodel.DecodeFunc for the NetPBM family (P1-P7).
func Decode(data []byte, ctl *imgmodel.Control) (imgmodel.Image, *imgmodel.ImageInfo, error) {
	if ctl == nil {
		ctl = &imgmodel.Control{}
	}
	info := &imgmodel.ImageInfo{Format: imgmodel.NetPBM}

	if len(data) < 2 || data[0] != 'P' || data[1] < '1' || data[1] > '7' {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.NetPBM, "missing P1-P7 magic")
	}
	magic := data[1]

	if magic == '7' {
		return decodePAM(data, info)
	}

	sc := newScanner(data[2:])
	width, ok := parseIntToken(sc)
	if !ok || width <= 0 {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.NetPBM, "missing or invalid width")
	}
	height, ok := parseIntToken(sc)
	if !ok || height <= 0 {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.NetPBM, "missing or invalid height")
	}

	maxval := 1
	if magic != '1' && magic != '4' {
		maxval, ok = parseIntToken(sc)
		if !ok || maxval <= 0 {
			return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.NetPBM, "missing or invalid maxval")
		}
	}

	if err := imgmodel.CheckDimensions(imgmodel.NetPBM, width, height, channelsFor(magic)*2); err != nil {
		return nil, info, err
	}

	info.Width, info.Height = width, height
	info.BitDepth = 8
	if maxval > 255 {
		info.BitDepth = 16
	}

	var img imgmodel.Image
	var notes []string
	switch magic {
	case '1':
		img, notes = decodeASCIIBitmap(sc, width, height)
		info.ColorType = "grayscale"
	case '2':
		img, notes = decodeASCIIGray(sc, width, height, maxval)
		info.ColorType = "grayscale"
	case '3':
		img, notes = decodeASCIIRGB(sc, width, height, maxval)
		info.ColorType = "rgb"
	case '4':
		sc.skipSingleSeparator()
		img, notes = decodeBinaryBitmap(data[2+sc.pos:], width, height)
		info.ColorType = "grayscale"
	case '5':
		sc.skipSingleSeparator()
		img, notes = decodeBinaryGray(data[2+sc.pos:], width, height, maxval)
		info.ColorType = "grayscale"
	case '6':
		sc.skipSingleSeparator()
		img, notes = decodeBinaryRGB(data[2+sc.pos:], width, height, maxval)
		info.ColorType = "rgb"
	}
	for _, n := range notes {
		info.AddNote(n)
	}
	if img == nil {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.NetPBM, "no pixel data decoded")
	}
	return img, info, nil
}
