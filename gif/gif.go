// Package gif decodes GIF87a/GIF89a images, including GIF89a animation via
// Graphic Control Extension-driven disposal and blending, with the same
// best-effort recovery policy as the rest of Vexel.
package gif

import (
	"image/color"

	"github.com/vexeldecode/vexel/bitio"
	"github.com/vexeldecode/vexel/imgmodel"
)

const (
	extensionIntroducer = 0x21
	imageSeparator      = 0x2c
	trailer             = 0x3b

	extGraphicControl = 0xf9
	extApplication     = 0xff
	extComment         = 0xfe
	extPlainText       = 0x01
)

// graphicControl is the parsed Graphic Control Extension (GIF89a §23),
// applying to the single image or plain text block that immediately
// follows it.
type graphicControl struct {
	disposal       int
	transparentIdx int
	hasTransparent bool
	delayCs        int
}

// frame is one fully-decoded GIF image block: its own sub-rectangle,
// palette, pixel indices and the control extension that preceded it.
type frame struct {
	left, top, width, height int
	palette                  color.Palette
	indices                  []byte
	ctl                      graphicControl
}

func parseGraphicControl(body []byte) graphicControl {
	gc := graphicControl{}
	if len(body) < 4 {
		return gc
	}
	packed := body[0]
	gc.disposal = int((packed >> 2) & 0x07)
	gc.hasTransparent = packed&0x01 != 0
	gc.delayCs = int(body[1]) | int(body[2])<<8
	gc.transparentIdx = int(body[3])
	return gc
}

// Decode implements imgmodel.DecodeFunc for GIF.
func Decode(data []byte, ctl *imgmodel.Control) (imgmodel.Image, *imgmodel.ImageInfo, error) {
	if ctl == nil {
		ctl = &imgmodel.Control{}
	}
	info := &imgmodel.ImageInfo{Format: imgmodel.GIF}

	if len(data) < 6 || !(string(data[:6]) == "GIF87a" || string(data[:6]) == "GIF89a") {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.GIF, "missing GIF signature")
	}

	br := bitio.NewByteReader(data[6:])
	sd, hnotes := parseScreenDescriptor(br)
	for _, n := range hnotes {
		info.AddNote(n)
	}
	if err := imgmodel.CheckDimensions(imgmodel.GIF, sd.width, sd.height, 4); err != nil {
		return nil, info, err
	}

	var globalTable color.Palette
	if sd.globalTableFlag {
		var gnotes []string
		globalTable, gnotes = readColorTable(br, 1<<(sd.globalTableSize+1))
		for _, n := range gnotes {
			info.AddNote(n)
		}
	}

	var frames []frame
	var pendingCtl graphicControl
	var havePendingCtl bool
	loopCount := -1 // -1 means "no NETSCAPE extension seen", treated as play-once

loop:
	for {
		tag, err := br.ReadU8()
		if err != nil {
			info.AddNote("gif: stream ended before a trailer block")
			break
		}
		switch tag {
		case trailer:
			break loop
		case extensionIntroducer:
			label, err := br.ReadU8()
			if err != nil {
				break loop
			}
			switch label {
			case extGraphicControl:
				body, bnotes := readSubBlocks(br)
				for _, n := range bnotes {
					info.AddNote(n)
				}
				pendingCtl = parseGraphicControl(body)
				havePendingCtl = true
			case extApplication:
				body, bnotes := readSubBlocks(br)
				for _, n := range bnotes {
					info.AddNote(n)
				}
				if len(body) >= 14 && string(body[0:8]) == "NETSCAPE" {
					loopCount = int(body[12]) | int(body[13])<<8
				}
			case extComment, extPlainText:
				skipSubBlocks(br)
			default:
				info.AddNote("gif: unrecognized extension label 0x%02x, skipping", label)
				skipSubBlocks(br)
			}
		case imageSeparator:
			f, fnotes := decodeImageBlock(br, globalTable)
			for _, n := range fnotes {
				info.AddNote(n)
			}
			if f == nil {
				break loop
			}
			if havePendingCtl {
				f.ctl = pendingCtl
				havePendingCtl = false
			}
			frames = append(frames, *f)
		default:
			info.AddNote("gif: unrecognized block introducer 0x%02x, stopping", tag)
			break loop
		}
	}

	if len(frames) == 0 {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.GIF, "no image blocks decoded")
	}

	info.Width, info.Height = sd.width, sd.height
	info.ColorType = "indexed"
	info.FrameCount = len(frames)
	if loopCount >= 0 {
		info.LoopCount = loopCount
	} else if len(frames) > 1 {
		info.LoopCount = 1 // no NETSCAPE extension: play once
	}

	if len(frames) == 1 && loopCount < 0 {
		img := frameToIndexed8(frames[0])
		return img, info, nil
	}
	return composeFrames(sd.width, sd.height, frames, info.LoopCount), info, nil
}

// decodeImageBlock reads one Image Descriptor plus its optional local color
// table and LZW-compressed index stream.
func decodeImageBlock(br *bitio.ByteReader, globalTable color.Palette) (*frame, []string) {
	var notes []string
	left, _ := br.ReadU16LE()
	top, _ := br.ReadU16LE()
	w, _ := br.ReadU16LE()
	h, _ := br.ReadU16LE()
	packed, err := br.ReadU8()
	if err != nil {
		return nil, append(notes, "gif: image descriptor truncated")
	}

	f := &frame{left: int(left), top: int(top), width: int(w), height: int(h)}
	if f.width <= 0 || f.height <= 0 {
		return nil, append(notes, "gif: image block has a non-positive dimension, stopping")
	}

	pal := globalTable
	if packed&0x80 != 0 {
		var lnotes []string
		pal, lnotes = readColorTable(br, 1<<(int(packed&0x07)+1))
		notes = append(notes, lnotes...)
	}
	f.palette = pal
	interlaced := packed&0x40 != 0

	minCodeSize, err := br.ReadU8()
	if err != nil {
		return nil, append(notes, "gif: missing LZW minimum code size")
	}
	compressed, bnotes := readSubBlocks(br)
	notes = append(notes, bnotes...)

	indices, lnotes := decodeLZW(compressed, int(minCodeSize), f.width*f.height)
	notes = append(notes, lnotes...)
	if len(indices) < f.width*f.height {
		notes = append(notes, "gif: LZW output shorter than the frame, padding with index 0")
		padded := make([]byte, f.width*f.height)
		copy(padded, indices)
		indices = padded
	} else if len(indices) > f.width*f.height {
		indices = indices[:f.width*f.height]
	}
	if interlaced {
		indices = deinterlace(indices, f.width, f.height)
	}
	f.indices = indices
	return f, notes
}

// deinterlace reverses GIF's 4-pass interlacing (GIF89a Appendix E): rows
// were encoded in order 0,8,16,... then 4,12,20,... then 2,6,10,... then
// 1,3,5,..., and are scattered back into natural row order here.
func deinterlace(indices []byte, w, h int) []byte {
	out := make([]byte, len(indices))
	passes := []struct{ start, step int }{{0, 8}, {4, 8}, {2, 4}, {1, 2}}
	src := 0
	for _, p := range passes {
		for row := p.start; row < h; row += p.step {
			copy(out[row*w:(row+1)*w], indices[src*w:(src+1)*w])
			src++
		}
	}
	return out
}

func frameToIndexed8(f frame) *imgmodel.Indexed8 {
	pal := f.palette
	if pal == nil {
		pal = color.Palette{color.NRGBA{A: 0xff}}
	}
	if f.ctl.hasTransparent && f.ctl.transparentIdx < len(pal) {
		// Copy before mutating: pal may be the shared global color table,
		// reused by other frames that should not inherit this frame's
		// transparent index.
		cloned := make(color.Palette, len(pal))
		copy(cloned, pal)
		pal = cloned
		if c, ok := pal[f.ctl.transparentIdx].(color.NRGBA); ok {
			c.A = 0
			pal[f.ctl.transparentIdx] = c
		}
	}
	img := imgmodel.NewIndexed8(f.width, f.height, pal)
	copy(img.Pix, f.indices)
	img.Clamp()
	return img
}
