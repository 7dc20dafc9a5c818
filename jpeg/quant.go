package jpeg

import "github.com/vexeldecode/vexel/bitio"

// parseDQT reads one or more quantization tables from a DQT segment body
// (ITU-T T.81 §B.2.4.1): each starts with a 1-byte precision/id nibble pair
// followed by 64 table entries, 1 or 2 bytes wide depending on precision.
func parseDQT(body []byte, tables *[4]*quantTable) []string {
	var notes []string
	br := bitio.NewByteReader(body)
	for br.Remaining() > 0 {
		pq, err := br.ReadU8()
		if err != nil {
			notes = append(notes, "jpeg: truncated DQT segment")
			break
		}
		precision := pq >> 4
		id := pq & 0x0f
		if id > 3 {
			notes = append(notes, "jpeg: DQT table id out of range, ignoring table")
			break
		}
		qt := &quantTable{}
		ok := true
		for i := 0; i < 64; i++ {
			var v uint32
			if precision == 0 {
				b, err := br.ReadU8()
				if err != nil {
					ok = false
					break
				}
				v = uint32(b)
			} else {
				b, err := br.ReadU16BE()
				if err != nil {
					ok = false
					break
				}
				v = uint32(b)
			}
			qt.values[zigZag[i]] = int32(v)
		}
		if !ok {
			notes = append(notes, "jpeg: truncated quantization table")
			break
		}
		tables[id] = qt
	}
	return notes
}
