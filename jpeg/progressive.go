package jpeg

import "github.com/vexeldecode/vexel/bitio"

// decodeProgressiveScan dispatches one progressive scan (ITU-T T.81 Annex
// G) to its DC/AC, first/refinement variant. DC scans may interleave every
// scan component like a baseline scan; AC scans are always single-component
// and walk that component's blocks in plain raster order (§G.1.1.1.3).
func decodeProgressiveScan(d *decoder, br *bitio.BitReader, scanComps []scanComponent, ss, se, ah, al int) {
	fr := d.frame
	if ss == 0 {
		decodeProgressiveDC(d, br, scanComps, ah, al)
		return
	}
	if len(scanComps) != 1 {
		d.note("jpeg: progressive AC scan unexpectedly interleaves %d components, decoding first only", len(scanComps))
	}
	sc := scanComps[0]
	eobrun := 0
	mcusBeforeRestart := d.restartInt
	mcuCount := 0
	_ = fr
	for row := 0; row < sc.comp.blocksPerCol; row++ {
		for col := 0; col < sc.comp.blocksPerLine; col++ {
			if br.EOFWhileDecoding() {
				return
			}
			blk := &sc.comp.blocks[row][col]
			if ah == 0 {
				decodeACFirst(br, d.acHuff[sc.acTable], blk, ss, se, al, &eobrun)
			} else {
				decodeACRefine(br, d.acHuff[sc.acTable], blk, ss, se, al, &eobrun)
			}

			mcuCount++
			if d.restartInt > 0 && mcuCount == mcusBeforeRestart {
				mcuCount = 0
				resyncOnRestart(br, d.data, scanComps)
				eobrun = 0
			}
		}
	}
}

func decodeProgressiveDC(d *decoder, br *bitio.BitReader, scanComps []scanComponent, ah, al int) {
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
						blk := &c.blocks[row][col]
						if ah == 0 {
							size, ok := d.dcHuff[sc.dcTable].decode(br)
							if !ok {
								return
							}
							diff := int32(0)
							if size > 0 {
								diff = extend(int32(br.ReadBits(uint(size))), int(size))
							}
							c.dcPred += diff
							blk[0] = c.dcPred << uint(al)
						} else {
							bit := br.ReadBits(1)
							blk[0] |= int32(bit) << uint(al)
						}
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

// decodeACFirst implements the first AC scan at a given successive-
// approximation bit position (§G.1.2.2): coefficients are placed shifted
// left by al, and a run of entirely-zero blocks is deferred via eobrun
// rather than encoded block by block.
func decodeACFirst(br *bitio.BitReader, acTable *huffmanTable, blk *block, ss, se, al int, eobrun *int) {
	if *eobrun > 0 {
		*eobrun--
		return
	}
	if acTable == nil {
		return
	}
	k := ss
	for k <= se {
		rs, ok := acTable.decode(br)
		if !ok {
			return
		}
		run := int(rs >> 4)
		size := int(rs & 0x0f)
		if size == 0 {
			if run < 15 {
				*eobrun = (1 << uint(run)) - 1
				if run > 0 {
					*eobrun += int(br.ReadBits(uint(run)))
				}
				return
			}
			k += 16 // ZRL
			continue
		}
		k += run
		if k > se {
			return
		}
		blk[zigZag[k]] = extend(int32(br.ReadBits(uint(size))), size) << uint(al)
		k++
	}
}

// decodeACRefine implements AC successive-approximation refinement
// (§G.1.2.3): every already-nonzero coefficient in [ss,se] picks up one
// correction bit each time it is passed over, whether by a ZRL, an EOB run,
// or the run-length preceding a newly significant coefficient.
func decodeACRefine(br *bitio.BitReader, acTable *huffmanTable, blk *block, ss, se, al int, eobrun *int) {
	refine := func(pos int) {
		if blk[pos] == 0 {
			return
		}
		if br.ReadBits(1) == 1 {
			if blk[pos] > 0 {
				blk[pos] += 1 << uint(al)
			} else {
				blk[pos] -= 1 << uint(al)
			}
		}
	}

	k := ss
	if *eobrun > 0 {
		for ; k <= se; k++ {
			refine(zigZag[k])
		}
		*eobrun--
		return
	}
	if acTable == nil {
		return
	}

	for k <= se {
		rs, ok := acTable.decode(br)
		if !ok {
			return
		}
		run := int(rs >> 4)
		size := int(rs & 0x0f)

		if size == 0 {
			if run < 15 {
				*eobrun = (1 << uint(run)) - 1
				if run > 0 {
					*eobrun += int(br.ReadBits(uint(run)))
				}
				for ; k <= se; k++ {
					refine(zigZag[k])
				}
				return
			}
			// ZRL: skip 16 zero-history coefficients, refining any
			// already-nonzero coefficient passed along the way.
			zeroesToSkip := 16
			for k <= se && zeroesToSkip > 0 {
				pos := zigZag[k]
				if blk[pos] != 0 {
					refine(pos)
				} else {
					zeroesToSkip--
				}
				k++
			}
			continue
		}

		var delta int32
		if br.ReadBits(1) == 1 {
			delta = 1 << uint(al)
		} else {
			delta = -(1 << uint(al))
		}
		zeroesToSkip := run
		for k <= se {
			pos := zigZag[k]
			if blk[pos] != 0 {
				refine(pos)
				k++
				continue
			}
			if zeroesToSkip == 0 {
				blk[pos] = delta
				k++
				break
			}
			zeroesToSkip--
			k++
		}
	}
}
