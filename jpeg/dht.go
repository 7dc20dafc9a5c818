package jpeg

import "github.com/vexeldecode/vexel/bitio"

// parseDHT reads one or more Huffman tables from a DHT segment body
// (ITU-T T.81 §B.2.4.2): class/id byte, 16 bit-length counts, then that
// many symbol values, repeated until the segment is exhausted.
func parseDHT(body []byte, dcTables, acTables *[4]*huffmanTable) []string {
	var notes []string
	br := bitio.NewByteReader(body)
	for br.Remaining() > 0 {
		tc, err := br.ReadU8()
		if err != nil {
			notes = append(notes, "jpeg: truncated DHT segment")
			break
		}
		class := tc >> 4 // 0 = DC, 1 = AC
		id := tc & 0x0f
		if id > 3 {
			notes = append(notes, "jpeg: DHT table id out of range, ignoring table")
			break
		}

		var bits [16]int
		total := 0
		for i := 0; i < 16; i++ {
			b, err := br.ReadU8()
			if err != nil {
				notes = append(notes, "jpeg: truncated DHT bit-length counts")
				return notes
			}
			bits[i] = int(b)
			total += int(b)
		}
		values, err := br.ReadExact(total)
		if err != nil {
			notes = append(notes, "jpeg: truncated DHT symbol values")
			break
		}
		table := buildHuffmanTable(bits, values)
		if class == 0 {
			dcTables[id] = table
		} else {
			acTables[id] = table
		}
	}
	return notes
}
