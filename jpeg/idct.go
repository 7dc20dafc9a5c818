package jpeg

import "math"

// AAN-factored separable inverse DCT, lifted from the teacher's
// inverseDCT8 (decode.go) — the commented-out textbook double sum earlier
// in that file is the reference this factorization was derived from, kept
// here only in spirit (not copied) since the factored form is what the
// teacher actually ships.
const (
	is0 = 2.828427124746190097603377448419
	is1 = 3.923141121612921796504728944537
	is2 = 3.695518130045147024512732757587
	is3 = 3.325878449210180948315153510472
	is4 = 2.828427124746190097603377448419
	is5 = 2.222280932078408898971323255794
	is6 = 1.530733729460359086913839936122
	is7 = 0.780361288064513071393139473908

	ia1 = 1.414213562373095048801688724209
	aan2 = 0.541196100146196984399723205367
	ia3 = 1.414213562373095048801688724209
	aan4 = 1.306562964876376527856643173427
	aan5 = 0.382683432365089771728459984030
)

// inverseDCT8 transforms du (natural order, already dequantized) into 8 rows of 8 level-shifted, clamped samples written to dst starting
// at offset 0 with the given stride between rows.
func inverseDCT8(du *block, dst []uint8, stride int) {
	var oneD [64]float64

	for u := 0; u < 8; u++ {
		v15 := float64(du[u]) * is0
		v26 := float64(du[u+8]) * is1
		v21 := float64(du[u+16]) * is2
		v28 := float64(du[u+24]) * is3
		v16 := float64(du[u+32]) * is4
		v25 := float64(du[u+40]) * is5
		v22 := float64(du[u+48]) * is6
		v27 := float64(du[u+56]) * is7

		v19 := (v25 - v28) * 0.5
		v20 := (v26 - v27) * 0.5
		v23 := (v26 + v27) * 0.5
		v24 := (v25 + v28) * 0.5

		v7 := (v23 + v24) * 0.5
		v11 := (v21 + v22) * 0.5
		v13 := (v23 - v24) * 0.5
		v17 := (v21 - v22) * 0.5

		v8 := (v15 + v16) * 0.5
		v9 := (v15 - v16) * 0.5

		term := (v19 - v20) * aan5
		v12 := term - v19*aan4
		v14 := v20*aan2 - term

		v6 := v14 - v7
		v5 := v13*ia3 - v6
		v4 := -v5 - v12
		v10 := v17*ia1 - v11

		v0 := (v8 + v11) * 0.5
		v1 := (v9 + v10) * 0.5
		v2 := (v9 - v10) * 0.5
		v3 := (v8 - v11) * 0.5

		oneD[u] = (v0 + v7) * 0.5
		oneD[u+8] = (v1 + v6) * 0.5
		oneD[u+16] = (v2 + v5) * 0.5
		oneD[u+24] = (v3 + v4) * 0.5
		oneD[u+32] = (v3 - v4) * 0.5
		oneD[u+40] = (v2 - v5) * 0.5
		oneD[u+48] = (v1 - v6) * 0.5
		oneD[u+56] = (v0 - v7) * 0.5
	}

	row := 0
	for v := 0; v < 8; v++ {
		cv := v << 3
		v15 := oneD[cv] * is0
		v26 := oneD[cv+1] * is1
		v21 := oneD[cv+2] * is2
		v28 := oneD[cv+3] * is3
		v16 := oneD[cv+4] * is4
		v25 := oneD[cv+5] * is5
		v22 := oneD[cv+6] * is6
		v27 := oneD[cv+7] * is7

		v19 := (v25 - v28) * 0.5
		v20 := (v26 - v27) * 0.5
		v23 := (v26 + v27) * 0.5
		v24 := (v25 + v28) * 0.5

		v7 := (v23 + v24) * 0.5
		v11 := (v21 + v22) * 0.5
		v13 := (v23 - v24) * 0.5
		v17 := (v21 - v22) * 0.5

		v8 := (v15 + v16) * 0.5
		v9 := (v15 - v16) * 0.5

		term := (v19 - v20) * aan5
		v12 := term - v19*aan4
		v14 := v20*aan2 - term

		v6 := v14 - v7
		v5 := v13*ia3 - v6
		v4 := -v5 - v12
		v10 := v17*ia1 - v11

		v0 := (v8 + v11) * 0.5
		v1 := (v9 + v10) * 0.5
		v2 := (v9 - v10) * 0.5
		v3 := (v8 - v11) * 0.5

		vals := [8]float64{
			(v0 + v7) * 0.5, (v1 + v6) * 0.5, (v2 + v5) * 0.5, (v3 + v4) * 0.5,
			(v3 - v4) * 0.5, (v2 - v5) * 0.5, (v1 - v6) * 0.5, (v0 - v7) * 0.5,
		}
		for i, fv := range vals {
			val := int(math.Round(fv)) + 128
			if val < 0 {
				val = 0
			} else if val > 255 {
				val = 255
			}
			dst[row+i] = uint8(val)
		}
		row += stride
	}
}

// dequantizeAndStore dequantizes one block (natural order) against qt and
// IDCTs it straight into comp.samples at the pixel location implied by
// (blockRow, blockCol), following the teacher's dequantize (decode.go),
// split per-block instead of per-frame; finalizeFrame calls it for every
// block once all scans have been decoded.
func dequantizeAndStore(comp *component, qt *quantTable, blk *block, blockRow, blockCol int) {
	var dq block
	if qt != nil {
		for i := 0; i < 64; i++ {
			dq[i] = blk[i] * qt.values[i]
		}
	} else {
		dq = *blk
	}
	stride := comp.stride
	offset := blockRow*8*stride + blockCol*8
	inverseDCT8(&dq, comp.samples[offset:], stride)
}
