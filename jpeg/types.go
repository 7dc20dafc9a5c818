package jpeg

import "github.com/vexeldecode/vexel/bitio"

// bitReader is the MSB-first, byte-stuffing-aware cursor every entropy
// decode loop in this package reads from (bitio.BitReader covers exactly
// the teacher's inline processECS bookkeeping, generalized in package
// bitio).
type bitReader = bitio.BitReader

// zigZag maps a position in zigzag scan order to its natural row-major
// index within an 8x8 block, the inverse of the teacher's zigZagRowCol
// table (jpeg.go) flattened to the 1-D form the entropy decoder walks.
var zigZag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// block holds one 8x8 unit of coefficients in natural (not zigzag) order,
// named dataUnit in the teacher (jpeg.go's type dataUnit [64]int16); widened
// to int32 since progressive successive-approximation refinement can push
// partially-decoded coefficients outside the int16 range transiently.
type block [64]int32

// component mirrors the teacher's Component (jpeg.go) plus the per-frame
// decode state (sampling geometry, coefficient storage, DC predictor) the
// teacher split across frame/scanComp. Kept as one struct here because
// nothing in this decoder needs frame and scan state to outlive each other.
type component struct {
	id      byte
	hSamp   int
	vSamp   int
	qTable  int
	dcTable int
	acTable int

	dcPred int32

	blocksPerLine int
	blocksPerCol  int
	blocks        [][]block // [row][col], used by baseline/progressive only

	// samples holds the fully reconstructed plane for this component in
	// its own (possibly subsampled) resolution: stride x rows, addressed
	// by sampleAt via nearest-neighbor upsampling to the frame's full
	// pixel dimensions.
	samples []uint8
	stride  int
	rows    int

	// prevLine carries lossless-mode DPCM prediction state (ITU-T T.81
	// Annex H): the samples of the row above the one being predicted. The
	// left neighbour is kept in decodeLosslessScan's own left slice.
	prevLine []int32
}

type frameHeader struct {
	marker    byte // SOF marker that introduced this frame
	precision int
	height    int
	width     int
	progressive bool
	lossless    bool
	components  []*component

	maxHSamp int
	maxVSamp int

	mcusPerLine int
	mcusPerCol  int

	restartInterval int
}

type quantTable struct {
	values [64]int32 // natural order
}

type huffCode struct {
	length int
	code   int
}

// huffmanTable is a JPEG-style (Annex C) canonical table: codes are
// assigned to symbols in HUFFVAL order within each bit length, not sorted
// by symbol value as DEFLATE's canonical construction is. Grounded on the
// teacher's buildTree (analyse.go), reimplemented as a direct map lookup
// instead of a linked tree.
type huffmanTable struct {
	codes map[huffCode]byte
}

func buildHuffmanTable(bits [16]int, values []byte) *huffmanTable {
	t := &huffmanTable{codes: make(map[huffCode]byte)}
	code := 0
	vi := 0
	for length := 1; length <= 16; length++ {
		for n := 0; n < bits[length-1]; n++ {
			if vi >= len(values) {
				break
			}
			t.codes[huffCode{length, code}] = values[vi]
			vi++
			code++
		}
		code <<= 1
	}
	return t
}

func (t *huffmanTable) decode(br *bitReader) (byte, bool) {
	var code int
	for length := 1; length <= 16; length++ {
		bit := br.ReadBits(1)
		code = code<<1 | int(bit)
		if sym, ok := t.codes[huffCode{length, code}]; ok {
			return sym, true
		}
	}
	return 0, false
}

// extend implements the JPEG "EXTEND" procedure (ITU-T T.81 §F.2.2.1),
// recovering a signed magnitude from the raw bits following a Huffman
// size category. The teacher's rlCodes (analyse.go) tabulates the same
// mapping; this is the closed-form equivalent of that table.
func extend(v int32, size int) int32 {
	if size == 0 {
		return 0
	}
	vt := int32(1) << uint(size-1)
	if v < vt {
		return v - (1 << uint(size)) + 1
	}
	return v
}
