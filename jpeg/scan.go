package jpeg

import (
	"github.com/vexeldecode/vexel/bitio"
	"github.com/vexeldecode/vexel/imgmodel"
)

type scanComponent struct {
	comp    *component
	dcTable int
	acTable int
}

// parseSOS reads a scan header (ITU-T T.81 §B.2.3) and dispatches to the
// entropy decoder matching the frame's encoding, mirroring the teacher's
// processSOS/getMcuDesc split (analyse.go) collapsed into one function
// since this decoder doesn't need a separate MCU-geometry object.
func (d *decoder) parseSOS(body []byte) error {
	if d.frame == nil {
		return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "SOS before any SOF")
	}
	br := bitio.NewByteReader(body)
	nComp, err := br.ReadU8()
	if err != nil {
		return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "truncated SOS header")
	}

	var scanComps []scanComponent
	for i := 0; i < int(nComp); i++ {
		selector, err1 := br.ReadU8()
		tables, err2 := br.ReadU8()
		if err1 != nil || err2 != nil {
			return imgmodel.NewError(imgmodel.StructuralError, imgmodel.JPEG, "truncated SOS component list")
		}
		var comp *component
		for _, c := range d.frame.components {
			if c.id == selector {
				comp = c
				break
			}
		}
		if comp == nil {
			d.note("jpeg: SOS references unknown component selector %d, skipping scan", selector)
			continue
		}
		comp.dcTable = int(tables >> 4)
		comp.acTable = int(tables & 0x0f)
		scanComps = append(scanComps, scanComponent{comp, comp.dcTable, comp.acTable})
	}
	if len(scanComps) == 0 {
		d.note("jpeg: scan has no usable components, skipping")
		return nil
	}

	ss, _ := br.ReadU8()
	se, _ := br.ReadU8()
	ahal, _ := br.ReadU8()
	ah := int(ahal >> 4)
	al := int(ahal & 0x0f)

	offset := d.br.Position()
	entropy := bitio.NewBitReader(d.data, offset)

	switch {
	case d.frame.lossless:
		decodeLosslessScan(d, entropy, scanComps, int(ss), al)
	case d.frame.progressive:
		decodeProgressiveScan(d, entropy, scanComps, int(ss), int(se), ah, al)
	default:
		decodeBaselineScan(d, entropy, scanComps)
	}

	if entropy.EOFWhileDecoding() {
		d.eofMidScan = true
	}

	newPos := entropy.Position()
	if marker, ok := entropy.AtMarker(); ok {
		newPos += 2 // consume the 0xFF and marker byte the scan stopped at
		_ = marker
	}
	d.br.Seek(newPos)
	return nil
}

// resyncOnRestart consumes a restart marker at the entropy reader's byte
// position (if any), dropping any padding bits still buffered, and resets
// every scan component's DC predictor, per spec's RSTn handling (ITU-T T.81
// §B.2.4). It reports whether a restart was consumed.
func resyncOnRestart(br *bitio.BitReader, data []byte, scanComps []scanComponent) bool {
	pos := br.Position()
	if pos+1 >= len(data) || data[pos] != 0xff || !isRST(data[pos+1]) {
		return false
	}
	br.Reset(pos + 2)
	for i := range scanComps {
		scanComps[i].comp.dcPred = 0
	}
	return true
}
