package jpeg

import "github.com/vexeldecode/vexel/bitio"

// decodeBaselineScan implements the single-pass Huffman sequential decode
// (ITU-T T.81 §F.2), grounded on the teacher's processECS (analyse.go):
// one DC coefficient per block via the size-category/EXTEND convention,
// followed by a zigzag run-length walk of AC coefficients terminated by
// EOB (size 0) or ZRL (run 15, size 0) for a 16-zero skip.
func decodeBaselineScan(d *decoder, br *bitio.BitReader, scanComps []scanComponent) {
	fr := d.frame
	mcusBeforeRestart := d.restartInt
	mcuCount := 0

	for mcuRow := 0; mcuRow < fr.mcusPerCol; mcuRow++ {
		for mcuCol := 0; mcuCol < fr.mcusPerLine; mcuCol++ {
			if br.EOFWhileDecoding() {
				return
			}
			for _, sc := range scanComps {
				c := sc.comp
				for dy := 0; dy < c.vSamp; dy++ {
					for dx := 0; dx < c.hSamp; dx++ {
						row := mcuRow*c.vSamp + dy
						col := mcuCol*c.hSamp + dx
						if row >= c.blocksPerCol || col >= c.blocksPerLine {
							continue
						}
						decodeBaselineBlock(br, c, d.dcHuff[sc.dcTable], d.acHuff[sc.acTable], &c.blocks[row][col])
					}
				}
			}

			mcuCount++
			if d.restartInt > 0 && mcuCount == mcusBeforeRestart {
				mcuCount = 0
				resyncOnRestart(br, d.data, scanComps)
			}
		}
	}
}

func decodeBaselineBlock(br *bitio.BitReader, c *component, dcTable, acTable *huffmanTable, blk *block) {
	*blk = block{}
	if dcTable == nil || acTable == nil {
		return
	}

	size, ok := dcTable.decode(br)
	if !ok {
		return
	}
	diff := int32(0)
	if size > 0 {
		diff = extend(int32(br.ReadBits(uint(size))), int(size))
	}
	c.dcPred += diff
	blk[0] = c.dcPred

	k := 1
	for k < 64 {
		rs, ok := acTable.decode(br)
		if !ok {
			return
		}
		run := int(rs >> 4)
		size := int(rs & 0x0f)
		if size == 0 {
			if run == 15 {
				k += 16
				continue
			}
			break // EOB
		}
		k += run
		if k > 63 {
			break
		}
		blk[zigZag[k]] = extend(int32(br.ReadBits(uint(size))), size)
		k++
	}
}
