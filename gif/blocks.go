package gif

import "github.com/vexeldecode/vexel/bitio"

// readSubBlocks concatenates a GIF data sub-block sequence: each block is a
// length byte followed by that many data bytes, terminated by a zero-length
// block (GIF89a §15). A stream that runs out before the terminator yields
// whatever was read so far plus a note, rather than failing.
func readSubBlocks(br *bitio.ByteReader) ([]byte, []string) {
	var notes []string
	var out []byte
	for {
		n, err := br.ReadU8()
		if err != nil {
			notes = append(notes, "gif: sub-block stream ended without a terminator")
			break
		}
		if n == 0 {
			break
		}
		chunk, err := br.ReadExact(int(n))
		if err != nil {
			notes = append(notes, "gif: sub-block truncated, using partial data")
			out = append(out, chunk...)
			break
		}
		out = append(out, chunk...)
	}
	return out, notes
}

// skipSubBlocks discards a sub-block sequence without collecting it, for
// extension blocks this decoder doesn't interpret (comment, plain text).
func skipSubBlocks(br *bitio.ByteReader) {
	for {
		n, err := br.ReadU8()
		if err != nil || n == 0 {
			return
		}
		if err := br.Skip(int(n)); err != nil {
			return
		}
	}
}
