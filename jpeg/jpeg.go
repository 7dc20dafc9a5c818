// Package jpeg decodes baseline, progressive and lossless JFIF/JPEG
// bitstreams (ITU-T T.81) into imgmodel images, following the marker/segment
// state machine and Huffman entropy decode the teacher (jrm-1535/jpeg)
// implements in analyse.go, reorganized around the cleaner Desc/frame/scan
// shape the teacher's own in-progress rewrite (jpeg.go) was moving toward.
package jpeg

import (
	"fmt"

	"github.com/vexeldecode/vexel/bitio"
	"github.com/vexeldecode/vexel/imgmodel"
)

// Decode implements imgmodel.DecodeFunc for JPEG.
func Decode(data []byte, ctl *imgmodel.Control) (imgmodel.Image, *imgmodel.ImageInfo, error) {
	info := &imgmodel.ImageInfo{Format: imgmodel.JPEG}
	d := &decoder{data: data, ctl: ctl}

	if err := d.run(); err != nil {
		return nil, info, err
	}

	if d.frame == nil {
		return nil, info, imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "no frame header found before end of stream")
	}

	info.Width = d.frame.width
	info.Height = d.frame.height
	info.BitDepth = d.frame.precision
	switch len(d.frame.components) {
	case 1:
		info.ColorType = "grayscale"
	case 3:
		info.ColorType = "YCbCr"
	case 4:
		info.ColorType = "YCCK/CMYK"
	}
	info.Orientation = d.orientation
	info.DensityX, info.DensityY, info.DensityUnit = d.densityX, d.densityY, d.densityUnit
	info.Notes = append(info.Notes, d.notes...)

	if !d.frame.lossless {
		finalizeFrame(d.frame, &d.qTables)
	}
	img := render(d.frame)
	if len(d.frame.components) != 1 && len(d.frame.components) != 3 && len(d.frame.components) != 4 {
		info.AddNote("unsupported component count %d, returning placeholder image", len(d.frame.components))
	}
	if d.sawSOS && d.eofMidScan {
		info.AddNote("entropy-coded data ended before the declared image height was reached")
	}
	return img, info, nil
}

type decoder struct {
	data []byte
	ctl  *imgmodel.Control

	br *bitio.ByteReader

	qTables    [4]*quantTable
	dcHuff     [4]*huffmanTable
	acHuff     [4]*huffmanTable
	restartInt int

	frame *frameHeader

	densityX, densityY int
	densityUnit        string
	orientation         *imgmodel.Orientation

	sawSOS     bool
	eofMidScan bool
	notes      []string
}

func (d *decoder) note(format string, args ...interface{}) {
	d.notes = append(d.notes, fmt.Sprintf(format, args...))
}

func (d *decoder) run() error {
	d.br = bitio.NewByteReader(d.data)

	marker, err := d.nextMarker()
	if err != nil || marker != markerSOI {
		return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "missing SOI marker")
	}

	for {
		marker, err := d.nextMarker()
		if err != nil {
			d.note("jpeg: stream ended without EOI marker")
			return nil
		}
		if marker == markerEOI {
			return nil
		}
		if isRST(marker) {
			continue // stray restart marker outside a scan: ignore
		}

		var body []byte
		if hasLengthField(marker) {
			length, err := d.br.ReadU16BE()
			if err != nil || int(length) < 2 {
				d.note("jpeg: truncated marker segment, stopping")
				return nil
			}
			body, err = d.br.ReadExact(int(length) - 2)
			if err != nil {
				d.note("jpeg: marker segment runs past end of data, stopping")
				return nil
			}
		}

		switch {
		case marker == markerDQT:
			d.notes = append(d.notes, parseDQT(body, &d.qTables)...)
		case marker == markerDHT:
			d.notes = append(d.notes, parseDHT(body, &d.dcHuff, &d.acHuff)...)
		case marker == markerDRI:
			if len(body) >= 2 {
				d.restartInt = int(body[0])<<8 | int(body[1])
			}
		case isSOF(marker):
			if err := d.parseSOF(marker, body); err != nil {
				return err
			}
		case marker == markerSOS:
			d.sawSOS = true
			if err := d.parseSOS(body); err != nil {
				return err
			}
		case marker == markerAPP0:
			d.parseAPP0(body)
		case marker == markerAPP1:
			d.parseAPP1(body)
		case marker == markerCOM:
			// Comment text, not surfaced as pixel or metadata by spec §4.4.
		default:
			// Unhandled application/reserved segment: skip silently, it
			// carries no pixel data.
		}
	}
}

// nextMarker scans forward past fill bytes (0xFF repeated) to the next
// 2-byte marker and returns its second byte.
func (d *decoder) nextMarker() (byte, error) {
	for {
		b, err := d.br.ReadU8()
		if err != nil {
			return 0, err
		}
		if b != 0xff {
			continue
		}
		for {
			b2, err := d.br.ReadU8()
			if err != nil {
				return 0, err
			}
			if b2 == 0xff {
				continue // extra fill byte
			}
			if b2 == 0x00 {
				break // stuffed literal 0xFF, not a marker: keep scanning
			}
			return b2, nil
		}
	}
}
