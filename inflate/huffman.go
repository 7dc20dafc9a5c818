package inflate

import "sort"

// huffTable is a canonical Huffman decode table built from per-symbol code
// lengths (RFC 1951 §3.2.2): symbols are assigned codes in order of
// increasing length, and within the same length in order of symbol value.
// Decoding walks bit-by-bit (LSB-first bit values packed MSB-first into the
// code, as DEFLATE specifies) against a map from (length<<16|code) to
// symbol — simplicity over raw speed, matched to this package's goal of a
// correct, auditable decompressor rather than a competitive one.
type huffTable struct {
	codes   map[uint32]int // key = length<<16 | code
	minBits int
	maxBits int
	// overSubscribed/underSubscribed record the two "malformed Huffman
	// table" conditions spec §4.2 asks to be treated as recoverable.
	overSubscribed  bool
	underSubscribed bool
}

type symLen struct {
	symbol int
	length int
}

func newHuffTable(lengths []int) *huffTable {
	h := &huffTable{codes: make(map[uint32]int)}

	var syms []symLen
	maxLen := 0
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		syms = append(syms, symLen{sym, l})
		if l > maxLen {
			maxLen = l
		}
	}
	if len(syms) == 0 {
		h.underSubscribed = true
		return h
	}

	blCount := make([]int, maxLen+1)
	for _, s := range syms {
		blCount[s.length]++
	}

	nextCode := make([]int, maxLen+2)
	code := 0
	for bits := 1; bits <= maxLen; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}

	// Detect over/under-subscription: the final code value at the deepest
	// length, plus one, must exactly reach 1<<maxLen for a complete code.
	totalUsed := 0
	avail := 1 << uint(maxLen)
	for bits := 1; bits <= maxLen; bits++ {
		totalUsed += blCount[bits] << uint(maxLen-bits)
	}
	if totalUsed > avail {
		h.overSubscribed = true
	} else if totalUsed < avail && len(syms) > 1 {
		h.underSubscribed = true
	}

	sort.Slice(syms, func(i, j int) bool {
		if syms[i].length != syms[j].length {
			return syms[i].length < syms[j].length
		}
		return syms[i].symbol < syms[j].symbol
	})

	assigned := make([]int, maxLen+1)
	for bits := 1; bits <= maxLen; bits++ {
		assigned[bits] = nextCode[bits]
	}
	for _, s := range syms {
		c := assigned[s.length]
		assigned[s.length]++
		key := uint32(s.length)<<16 | uint32(c)
		h.codes[key] = s.symbol
		if h.minBits == 0 || s.length < h.minBits {
			h.minBits = s.length
		}
		if s.length > h.maxBits {
			h.maxBits = s.length
		}
	}
	return h
}

// decode reads one symbol from br using this table, bit by bit. ok is false
// when the table has no symbols at all (under-subscribed to the point of
// being empty), when the bitstream ran out before a valid code matched, or
// when no code of up to 15 bits matches.
func (h *huffTable) decode(br *bitReader) (int, bool) {
	if len(h.codes) == 0 {
		return 0, false
	}
	var code uint32
	for length := 1; length <= 15; length++ {
		bit, ok := br.readBit()
		if !ok {
			return 0, false
		}
		code = code<<1 | uint32(bit)
		if sym, found := h.codes[uint32(length)<<16|code]; found {
			return sym, true
		}
	}
	return 0, false
}
