// Package netpbm decodes the NetPBM family: P1/P2/P3 (ASCII bitmap/gray/
// RGB), P4/P5/P6 (their binary counterparts) and P7 (PAM), with the same
// best-effort recovery policy as the rest of Vexel.
package netpbm

// scanner is a whitespace/comment-skipping token cursor over the ASCII
// portion of a P1-P6 header (spec §4.8: tokens are whitespace-separated,
// '#' runs to end-of-line as a comment).
type scanner struct {
	data []byte
	pos  int
}

func newScanner(data []byte) *scanner { return &scanner{data: data} }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (s *scanner) skipWhitespaceAndComments() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == '#' {
			for s.pos < len(s.data) && s.data[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		if isSpace(c) {
			s.pos++
			continue
		}
		break
	}
}

func (s *scanner) token() (string, bool) {
	s.skipWhitespaceAndComments()
	start := s.pos
	for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && s.data[s.pos] != '#' {
		s.pos++
	}
	if s.pos == start {
		return "", false
	}
	return string(s.data[start:s.pos]), true
}

// skipSingleSeparator advances past exactly one byte: the single mandatory
// whitespace character netpbm's binary formats require between the last
// header token and the raw sample bytes. Unlike skipWhitespaceAndComments,
// it must never consume more than one byte, or binary data that happens to
// start with a space/newline/'#' byte would be silently eaten.
func (s *scanner) skipSingleSeparator() {
	if s.pos < len(s.data) {
		s.pos++
	}
}

func parseIntToken(sc *scanner) (int, bool) {
	tok, ok := sc.token()
	if !ok || tok == "" {
		return 0, false
	}
	n := 0
	for _, c := range []byte(tok) {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// scaleSample rescales a sample in [0, maxval] to [0, outMax], the
// conversion every NetPBM variant applies when maxval isn't already the
// decoder's native range.
func scaleSample(v, maxval, outMax int) uint16 {
	if maxval <= 0 {
		return 0
	}
	s := v * outMax / maxval
	if s < 0 {
		s = 0
	}
	if s > outMax {
		s = outMax
	}
	return uint16(s)
}

func channelsFor(magic byte) int {
	switch magic {
	case '3', '6':
		return 3
	}
	return 1
}
