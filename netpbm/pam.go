package netpbm

import (
	"strconv"
	"strings"

	"github.com/vexeldecode/vexel/imgmodel"
)

// pamHeader is a parsed P7 PAM header: WIDTH, HEIGHT, DEPTH, MAXVAL,
// TUPLTYPE, each a "KEYWORD value" line, terminated by a bare ENDHDR line
// (spec §4.8).
type pamHeader struct {
	width, height, depth, maxval int
	tupleType                    string
}

func decodePAM(data []byte, info *imgmodel.ImageInfo) (imgmodel.Image, *imgmodel.ImageInfo, error) {
	h, bodyStart, notes := parsePAMHeader(data)
	for _, n := range notes {
		info.AddNote(n)
	}
	if h == nil {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.NetPBM, "malformed PAM header")
	}
	if err := imgmodel.CheckDimensions(imgmodel.NetPBM, h.width, h.height, h.depth*2); err != nil {
		return nil, info, err
	}

	info.Width, info.Height = h.width, h.height
	info.BitDepth = 8
	if h.maxval > 255 {
		info.BitDepth = 16
	}
	info.ColorType = pamColorType(h)

	img, dnotes := decodePAMBody(data[bodyStart:], h)
	for _, n := range dnotes {
		info.AddNote(n)
	}
	if img == nil {
		return nil, info, imgmodel.NewError(imgmodel.UnsupportedFeature, imgmodel.NetPBM, "unsupported PAM depth")
	}
	return img, info, nil
}

func pamColorType(h *pamHeader) string {
	switch h.depth {
	case 1:
		return "grayscale"
	case 2:
		return "grayscale+alpha"
	case 3:
		return "rgb"
	case 4:
		return "rgba"
	}
	return "unknown"
}

// parsePAMHeader walks the "P7\n" magic line followed by KEYWORD-value
// lines up to a bare ENDHDR line, returning the byte offset where the
// binary sample data begins (the single byte right after ENDHDR's
// terminating newline).
func parsePAMHeader(data []byte) (*pamHeader, int, []string) {
	var notes []string
	h := &pamHeader{maxval: 255}

	nl := indexByte(data, 0, '\n')
	if nl < 0 {
		return nil, 0, append(notes, "netpbm: PAM header missing newline after magic")
	}
	pos := nl + 1

	for pos < len(data) {
		lineEnd := indexByte(data, pos, '\n')
		var line string
		if lineEnd < 0 {
			line = string(data[pos:])
			pos = len(data)
		} else {
			line = string(data[pos:lineEnd])
			pos = lineEnd + 1
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		switch strings.ToUpper(fields[0]) {
		case "WIDTH":
			h.width = atoiOr(fields, h.width)
		case "HEIGHT":
			h.height = atoiOr(fields, h.height)
		case "DEPTH":
			h.depth = atoiOr(fields, h.depth)
		case "MAXVAL":
			h.maxval = atoiOr(fields, h.maxval)
		case "TUPLTYPE":
			if len(fields) > 1 {
				h.tupleType = fields[1]
			}
		case "ENDHDR":
			if h.width <= 0 || h.height <= 0 || h.depth <= 0 {
				return nil, 0, append(notes, "netpbm: PAM header missing WIDTH/HEIGHT/DEPTH")
			}
			return h, pos, notes
		}
	}
	return nil, 0, append(notes, "netpbm: PAM header missing ENDHDR")
}

func indexByte(data []byte, from int, b byte) int {
	for i := from; i < len(data); i++ {
		if data[i] == b {
			return i
		}
	}
	return -1
}

func atoiOr(fields []string, def int) int {
	if len(fields) < 2 {
		return def
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return def
	}
	return n
}

func decodePAMBody(data []byte, h *pamHeader) (imgmodel.Image, []string) {
	width := sampleWidth(h.maxval)
	switch h.depth {
	case 1:
		return decodeBinaryGray(data, h.width, h.height, h.maxval)
	case 2:
		return decodePAMGrayAlpha(data, h.width, h.height, h.maxval, width)
	case 3:
		return decodeBinaryRGB(data, h.width, h.height, h.maxval)
	case 4:
		return decodePAMRGBA(data, h.width, h.height, h.maxval, width)
	}
	return nil, []string{"netpbm: unsupported PAM depth, only 1/2/3/4 are handled"}
}
