// Package png decodes PNG and APNG images with the same best-effort
// recovery policy as the rest of Vexel: a bad CRC or a truncated IDAT
// stream degrades to a recovery note rather than a hard failure, and chunks
// are taken in whatever order they appear without an ordering check, reusing the chunk-loop shape of the teacher pack's
// XC-Zero/simple-png reader and fumin/png's filter reversal.
package png

import (
	"hash/crc32"

	"github.com/vexeldecode/vexel/bitio"
	"github.com/vexeldecode/vexel/imgmodel"
	"github.com/vexeldecode/vexel/inflate"
)

var signature = [8]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

type rawChunk struct {
	typ  string
	body []byte
}

// readChunks walks the PNG chunk stream, verifying each CRC32 (PNG §5.5)
// against the chunk type+data. A CRC mismatch is recorded as a note and the
// chunk is kept anyway — spec §7 treats checksum failures as recoverable,
// matching inflate/zlib.go's Adler-32 handling.
func readChunks(data []byte) ([]rawChunk, []string) {
	var notes []string
	var chunks []rawChunk

	br := bitio.NewByteReader(data)
	for br.Remaining() >= 8 {
		length, err := br.ReadU32BE()
		if err != nil {
			break
		}
		typBytes, err := br.ReadExact(4)
		if err != nil {
			notes = append(notes, "png: chunk header truncated, stopping")
			break
		}
		typ := string(typBytes)

		if int(length) > br.Remaining()-4 { // not enough data + missing CRC
			notes = append(notes, "png: chunk '"+typ+"' truncated, using partial data")
			length = uint32(br.Remaining() - 4)
		}
		body, err := br.ReadExact(int(length))
		if err != nil {
			notes = append(notes, "png: chunk '"+typ+"' body unreadable, stopping")
			break
		}
		crcWant, err := br.ReadU32BE()
		if err == nil {
			crcGot := crc32.ChecksumIEEE(append(append([]byte{}, typBytes...), body...))
			if crcGot != crcWant {
				notes = append(notes, "png: CRC mismatch in "+typ)
			}
		}

		chunks = append(chunks, rawChunk{typ: typ, body: body})
		if typ == "IEND" {
			break
		}
	}
	return chunks, notes
}

// Decode implements imgmodel.DecodeFunc for PNG and APNG.
func Decode(data []byte, ctl *imgmodel.Control) (imgmodel.Image, *imgmodel.ImageInfo, error) {
	if ctl == nil {
		ctl = &imgmodel.Control{}
	}
	info := &imgmodel.ImageInfo{Format: imgmodel.PNG}

	if len(data) < 8 || !hasSignature(data) {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.PNG, "missing PNG signature")
	}

	chunks, notes := readChunks(data[8:])
	for _, n := range notes {
		info.AddNote(n)
	}
	if ctl.Markers {
		for _, c := range chunks {
			info.AddNote("chunk %s (%d bytes)", c.typ, len(c.body))
		}
	}

	var ih *ihdrData
	var pal []colorEntry
	var trns *trnsData
	var actl *actlData
	var idat []byte
	var gamma float64
	var gammaPresent bool
	var chroma *imgmodel.Chromaticity

	var animFrames []apngFrame
	var curFCTL *fctlData
	var curData []byte

	flushFrame := func() {
		if curFCTL == nil {
			return
		}
		plain, fnotes := inflateChunk(curData)
		for _, n := range fnotes {
			info.AddNote(n)
		}
		fih := *ih
		fih.width, fih.height = curFCTL.width, curFCTL.height
		raw, rnotes := decodeScanlines(plain, &fih)
		for _, n := range rnotes {
			info.AddNote(n)
		}
		animFrames = append(animFrames, apngFrame{ctl: curFCTL, img: raw})
		curFCTL, curData = nil, nil
	}

	for _, c := range chunks {
		switch c.typ {
		case "IHDR":
			var hnotes []string
			ih, hnotes = parseIHDR(c.body)
			for _, n := range hnotes {
				info.AddNote(n)
			}
		case "PLTE":
			var pnotes []string
			pal, pnotes = parsePLTE(c.body)
			for _, n := range pnotes {
				info.AddNote(n)
			}
		case "tRNS":
			if ih != nil {
				var tnotes []string
				trns, tnotes = parseTRNS(c.body, ih)
				for _, n := range tnotes {
					info.AddNote(n)
				}
			}
		case "gAMA":
			if len(c.body) == 4 {
				v, _ := bitio.NewByteReader(c.body).ReadU32BE()
				gamma = float64(v) / 100000.0
				gammaPresent = true
			}
		case "cHRM":
			if len(c.body) == 32 {
				chroma = parseCHRM(c.body)
			}
		case "sRGB", "iCCP":
			info.AddNote("png: %s present, treated as identity color transform", c.typ)
		case "acTL":
			var anotes []string
			actl, anotes = parseACTL(c.body)
			for _, n := range anotes {
				info.AddNote(n)
			}
		case "fcTL":
			flushFrame()
			var fnotes []string
			curFCTL, fnotes = parseFCTL(c.body)
			for _, n := range fnotes {
				info.AddNote(n)
			}
		case "IDAT":
			if actl != nil && curFCTL != nil {
				// A fcTL already seen before this IDAT means the default
				// image doubles as the first animation frame (APNG spec).
				curData = append(curData, c.body...)
			} else {
				idat = append(idat, c.body...)
			}
		case "fdAT":
			if len(c.body) >= 4 {
				curData = append(curData, c.body[4:]...)
			}
		case "IEND":
			flushFrame()
		}
	}

	if ih == nil {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.PNG, "missing IHDR chunk")
	}
	if err := imgmodel.CheckDimensions(imgmodel.PNG, ih.width, ih.height, ih.channels()*2); err != nil {
		return nil, info, err
	}

	info.Width, info.Height = ih.width, ih.height
	info.BitDepth = ih.bitDepth
	info.ColorType = colorTypeName(ih.colorType)
	info.GammaPresent = gammaPresent
	info.Gamma = gamma
	info.Chromaticity = chroma

	if ih.colorType == 3 && pal == nil {
		info.AddNote("png: indexed color type with no PLTE chunk, using an empty palette")
		pal = []colorEntry{}
	}

	if len(idat) == 0 && len(animFrames) == 0 && curFCTL == nil {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.PNG, "no IDAT data")
	}

	if actl != nil {
		info.FrameCount = actl.numFrames
		info.LoopCount = actl.numPlays
		anim := composeAnimation(ih.width, ih.height, animFrames, ih, pal, trns, actl.numPlays)
		if len(anim.Frames) == 0 {
			info.AddNote("png: acTL present but no usable frames decoded, falling back to static image")
		} else {
			return anim, info, nil
		}
	}

	plain, pnotes := inflateChunk(idat)
	for _, n := range pnotes {
		info.AddNote(n)
	}
	raw, rnotes := decodeScanlines(plain, ih)
	for _, n := range rnotes {
		info.AddNote(n)
	}
	img := toImage(raw, ih, pal, trns)
	return img, info, nil
}

func inflateChunk(idat []byte) ([]byte, []string) {
	plain, notes, err := inflate.Zlib(idat)
	if err != nil {
		notes = append(notes, "png: zlib stream unreadable, image data is incomplete")
		return plain, notes
	}
	return plain, notes
}

func hasSignature(data []byte) bool {
	for i, b := range signature {
		if data[i] != b {
			return false
		}
	}
	return true
}

func colorTypeName(ct int) string {
	switch ct {
	case 0:
		return "grayscale"
	case 2:
		return "truecolor"
	case 3:
		return "indexed"
	case 4:
		return "grayscale+alpha"
	case 6:
		return "truecolor+alpha"
	}
	return "unknown"
}

func parseCHRM(body []byte) *imgmodel.Chromaticity {
	br := bitio.NewByteReader(body)
	vals := make([]float64, 8)
	for i := range vals {
		v, _ := br.ReadU32BE()
		vals[i] = float64(v) / 100000.0
	}
	return &imgmodel.Chromaticity{
		WhiteX: vals[0], WhiteY: vals[1],
		RedX: vals[2], RedY: vals[3],
		GreenX: vals[4], GreenY: vals[5],
		BlueX: vals[6], BlueY: vals[7],
	}
}
