package jpeg

import (
	"github.com/vexeldecode/vexel/bitio"
	"github.com/vexeldecode/vexel/imgmodel"
)

// parseSOF reads a frame header (ITU-T T.81 §B.2.2): precision, height,
// width, then one 3-byte component definition (id, H/V sampling nibble
// pair, quant table selector) per component — following the teacher's
// Component/frame split (jpeg.go) collapsed into one struct.
func (d *decoder) parseSOF(marker byte, body []byte) error {
	if d.frame != nil {
		d.note("jpeg: multiple SOF markers, hierarchical/differential frames unsupported; keeping the first frame")
		return nil
	}
	br := bitio.NewByteReader(body)
	precision, err := br.ReadU8()
	if err != nil {
		return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "truncated SOF header")
	}
	height, err := br.ReadU16BE()
	if err != nil {
		return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "truncated SOF header")
	}
	width, err := br.ReadU16BE()
	if err != nil {
		return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "truncated SOF header")
	}
	nComp, err := br.ReadU8()
	if err != nil || nComp == 0 {
		return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "SOF declares zero components")
	}

	if err := imgmodel.CheckDimensions(imgmodel.JPEG, int(width), int(height), int(nComp)); err != nil {
		return err
	}

	fr := &frameHeader{
		marker:      marker,
		precision:   int(precision),
		width:       int(width),
		height:      int(height),
		progressive: marker == markerSOF2 || marker == markerSOF6 || marker == markerSOF10 || marker == markerSOF14,
		lossless:    marker == markerSOF3 || marker == markerSOF7 || marker == markerSOF11 || marker == markerSOF15,
	}
	if marker != markerSOF0 && marker != markerSOF1 && marker != markerSOF2 && marker != markerSOF3 {
		d.note("jpeg: arithmetic or differential encoding (marker 0xff%02x) is unsupported, attempting Huffman decode anyway", marker)
	}

	for i := 0; i < int(nComp); i++ {
		id, err := br.ReadU8()
		if err != nil {
			return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "truncated SOF component list")
		}
		hv, err := br.ReadU8()
		if err != nil {
			return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "truncated SOF component list")
		}
		qs, err := br.ReadU8()
		if err != nil {
			return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "truncated SOF component list")
		}
		c := &component{
			id:     id,
			hSamp:  int(hv >> 4),
			vSamp:  int(hv & 0x0f),
			qTable: int(qs),
		}
		if c.hSamp == 0 {
			c.hSamp = 1
		}
		if c.vSamp == 0 {
			c.vSamp = 1
		}
		fr.components = append(fr.components, c)
	}

	for _, c := range fr.components {
		if c.hSamp > fr.maxHSamp {
			fr.maxHSamp = c.hSamp
		}
		if c.vSamp > fr.maxVSamp {
			fr.maxVSamp = c.vSamp
		}
	}
	fr.mcusPerLine = ceilDiv(fr.width, 8*fr.maxHSamp)
	fr.mcusPerCol = ceilDiv(fr.height, 8*fr.maxVSamp)

	if fr.lossless {
		for _, c := range fr.components {
			compW := ceilDiv(fr.width*c.hSamp, fr.maxHSamp)
			compH := ceilDiv(fr.height*c.vSamp, fr.maxVSamp)
			c.stride = compW
			c.rows = compH
			c.samples = make([]uint8, compW*compH)
			c.prevLine = make([]int32, compW)
		}
	} else {
		for _, c := range fr.components {
			c.blocksPerLine = fr.mcusPerLine * c.hSamp
			c.blocksPerCol = fr.mcusPerCol * c.vSamp
			c.stride = c.blocksPerLine * 8
			c.rows = c.blocksPerCol * 8
			c.samples = make([]uint8, c.stride*c.rows)
			c.blocks = make([][]block, c.blocksPerCol)
			for r := range c.blocks {
				c.blocks[r] = make([]block, c.blocksPerLine)
			}
		}
	}

	d.frame = fr
	return nil
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// finalizeFrame dequantizes and IDCTs every block of every component once
// all scans (baseline's one, or progressive's several) have finished.
func finalizeFrame(fr *frameHeader, qTables *[4]*quantTable) {
	for _, c := range fr.components {
		var qt *quantTable
		if c.qTable < len(qTables) {
			qt = qTables[c.qTable]
		}
		for r := 0; r < c.blocksPerCol; r++ {
			for col := 0; col < c.blocksPerLine; col++ {
				dequantizeAndStore(c, qt, &c.blocks[r][col], r, col)
			}
		}
	}
}
