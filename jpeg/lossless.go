package jpeg

import "github.com/vexeldecode/vexel/bitio"

// decodeLosslessScan implements SOF3 predictive (DPCM) decoding (ITU-T
// T.81 Annex H): each sample is a Huffman-coded difference from a
// predictor built out of its left (A), above (B) and above-left (C)
// neighbors, added straight into the component's sample plane with no
// DCT/quantization step at all. Only the DC Huffman table assigned to a
// scan component is used — lossless mode has no AC coefficients.
func decodeLosslessScan(d *decoder, br *bitio.BitReader, scanComps []scanComponent, predictor, pointTransform int) {
	fr := d.frame
	defaultPred := int32(1) << uint(fr.precision-1-pointTransform)

	left := make([]int32, len(scanComps))

	mcusPerLine := ceilDiv(fr.width, fr.maxHSamp)
	mcusPerCol := ceilDiv(fr.height, fr.maxVSamp)

	mcusBeforeRestart := d.restartInt
	mcuCount := 0

	for mcuRow := 0; mcuRow < mcusPerCol; mcuRow++ {
		for mcuCol := 0; mcuCol < mcusPerLine; mcuCol++ {
			if br.EOFWhileDecoding() {
				return
			}
			for si, sc := range scanComps {
				c := sc.comp
				for dy := 0; dy < c.vSamp; dy++ {
					for dx := 0; dx < c.hSamp; dx++ {
						x := mcuCol*c.hSamp + dx
						y := mcuRow*c.vSamp + dy
						if x >= c.stride || y >= c.rows {
							continue
						}
						decodeLosslessSample(d, br, c, d.dcHuff[sc.dcTable], x, y, predictor, defaultPred, left, si)
					}
				}
			}

			mcuCount++
			if d.restartInt > 0 && mcuCount == mcusBeforeRestart {
				mcuCount = 0
				if resyncOnRestart(br, d.data, scanComps) {
					for i := range scanComps {
						left[i] = 0
					}
				}
			}
		}
	}
}

func decodeLosslessSample(d *decoder, br *bitio.BitReader, c *component, dcTable *huffmanTable, x, y, predictor int, defaultPred int32, left []int32, si int) {
	var px int32
	switch {
	case x == 0 && y == 0:
		px = defaultPred
	case y == 0:
		px = left[si] // only A available on the first line
	case x == 0:
		px = int32(c.prevLine[x]) // only B available in the first column
	default:
		a := left[si]
		b := int32(c.prevLine[x])
		cc := int32(c.prevLine[x-1])
		switch predictor {
		case 1:
			px = a
		case 2:
			px = b
		case 3:
			px = cc
		case 4:
			px = a + b - cc
		case 5:
			px = a + (b-cc)/2
		case 6:
			px = b + (a-cc)/2
		case 7:
			px = (a + b) / 2
		default:
			px = a
		}
	}

	size := 0
	if dcTable != nil {
		if s, ok := dcTable.decode(br); ok {
			size = int(s)
		}
	}
	diff := int32(0)
	if size > 0 {
		diff = extend(int32(br.ReadBits(uint(size))), size)
	}

	sample := px + diff
	maxVal := int32(1)<<uint(d.frame.precision) - 1
	if sample < 0 {
		sample = 0
	} else if sample > maxVal {
		sample = maxVal
	}

	c.samples[y*c.stride+x] = uint8(sample)
	left[si] = sample
	c.prevLine[x] = sample
}
