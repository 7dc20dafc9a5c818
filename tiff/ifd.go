package tiff

// ifdEntry is one raw 12-byte IFD entry: tag, field type, value count, and
// either the inline value or an offset to it (TIFF 6.0 §2).
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	raw   [4]byte
}

// values resolves this entry to a slice of its count values, each widened
// to uint32. Values totaling 4 bytes or fewer live inline in raw; larger
// ones are read from the offset raw encodes.
func (e ifdEntry) values(data []byte, be bool) []uint32 {
	n := int(e.count)
	if n <= 0 {
		return nil
	}
	sz := typeSize(e.typ)
	total := n * sz

	var src []byte
	if total <= 4 {
		src = e.raw[:total]
	} else {
		off := int(readU32(e.raw[:], be))
		if off < 0 || off+total > len(data) {
			return nil
		}
		src = data[off : off+total]
	}

	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		chunk := src[i*sz : i*sz+sz]
		switch sz {
		case 1:
			out[i] = uint32(chunk[0])
		case 2:
			out[i] = uint32(readU16(chunk, be))
		default: // 4 or 8 (rational numerator only; unused by our tag set)
			out[i] = readU32(chunk[:4], be)
		}
	}
	return out
}

// parseIFD reads the IFD at offset: a uint16 entry count, that many
// 12-byte entries, and a trailing uint32 offset to the next IFD (0 if
// none). Tag values this package doesn't consume are parsed but discarded.
func parseIFD(data []byte, offset uint32, be bool) (map[uint16][]uint32, uint32, []string) {
	var notes []string
	start := int(offset)
	if start < 0 || start+2 > len(data) {
		return nil, 0, append(notes, "tiff: IFD offset runs past end of file")
	}

	count := int(readU16(data[start:start+2], be))
	entries := make(map[uint16][]uint32, count)
	pos := start + 2

	for i := 0; i < count; i++ {
		if pos+12 > len(data) {
			notes = append(notes, "tiff: IFD truncated mid-entry, stopping early")
			return entries, 0, notes
		}
		e := ifdEntry{
			tag:   readU16(data[pos:pos+2], be),
			typ:   readU16(data[pos+2:pos+4], be),
			count: readU32(data[pos+4:pos+8], be),
		}
		copy(e.raw[:], data[pos+8:pos+12])
		if v := e.values(data, be); v != nil {
			entries[e.tag] = v
		}
		pos += 12
	}

	var next uint32
	if pos+4 <= len(data) {
		next = readU32(data[pos:pos+4], be)
	}
	return entries, next, notes
}

func firstVal(entries map[uint16][]uint32, tag uint16) (int, bool) {
	v, ok := entries[tag]
	if !ok || len(v) == 0 {
		return 0, false
	}
	return int(v[0]), true
}

func firstValOr(entries map[uint16][]uint32, tag uint16, def int) int {
	v, ok := firstVal(entries, tag)
	if !ok {
		return def
	}
	return v
}
