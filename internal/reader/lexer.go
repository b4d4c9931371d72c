package reader

// ASCII classification tables, in the style of a lookup-table lexer: one
// bool per byte value rather than a switch in the hot path.
var (
	isWhitespaceByte [128]bool
	isIdentByte      [128]bool
	isIdentStartByte [128]bool
	isDigitByte      [128]bool
	isNumeralByte    [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		c := byte(i)
		isWhitespaceByte[i] = c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r'
		isDigitByte[i] = c >= '0' && c <= '9'
		isIdentStartByte[i] = (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		isIdentByte[i] = isIdentStartByte[i] || isDigitByte[i]
		isNumeralByte[i] = isIdentByte[i] || c == '+' || c == '-' || c == '.'
	}
}

func isWhitespace(c byte) bool {
	return c < 128 && isWhitespaceByte[c]
}

func isIdentChar(c byte) bool {
	return c < 128 && isIdentByte[c]
}

// resetTokenSize sets tokSize to 1 unless the buffer is at its terminating
// nul, matching the original's "re-probe a single byte token" idiom used
// before checking punctuation.
func (s *State) resetTokenSize() {
	if s.buf[s.tok] != 0 {
		s.tokSize = 1
	} else {
		s.tokSize = 0
	}
}

// whitespaceSpan returns the length of the leading run of whitespace bytes
// in buf starting at off, advancing *line on every newline crossed.
func whitespaceSpan(buf []byte, off int, line *int) int {
	span := 0
	for off+span < len(buf) {
		c := buf[off+span]
		if !isWhitespace(c) {
			break
		}
		if c == '\n' {
			*line++
		}
		span++
	}
	return span
}

// consumeToken advances tok past the current token, counting newlines.
func (s *State) consumeToken() {
	for i := 0; i < s.tokSize; i++ {
		if s.buf[s.tok] == '\n' {
			s.line++
		}
		s.tok++
	}
	s.tokSize = 0
}

// nextTokenNoSkip finds the start of the next token without skipping
// comments (but does skip whitespace), reading more input if the buffer is
// exhausted.
func (s *State) nextTokenNoSkip() {
	s.consumeToken()
	s.tok += whitespaceSpan(s.buf, s.tok, &s.line)

	for s.tok >= s.numBuf {
		if s.readMore() == 0 {
			s.tokSize = 0
			return
		}
		s.tok += whitespaceSpan(s.buf, s.tok, &s.line)
	}
	s.tokSize = 1
}

// nextTokenSkipComments is nextTokenNoSkip plus repeated comment skipping,
// recording beforeSkip after the whitespace following the consumed token
// but before any comment skipping.
func (s *State) nextTokenSkipComments() {
	s.nextTokenNoSkip()
	s.beforeSkip = s.tok

	if s.tokSize != 0 {
		for s.skipComment() {
		}
		s.resetTokenSize()
	}
}

// extendToken grows the current token by the longest run of bytes in set,
// reading more input to avoid truncating at the buffer boundary.
func (s *State) extendToken(set string) int {
	return s.extendTokenImpl(set, true)
}

// extendCToken is extendToken but grows by bytes NOT in set.
func (s *State) extendCToken(set string) int {
	return s.extendTokenImpl(set, false)
}

func (s *State) extendTokenImpl(set string, in bool) int {
	s.tokSize = span(s.buf, s.tok, set, in)

	for s.tok+s.tokSize >= s.numBuf {
		if s.readMore() == 0 {
			break
		}
		s.tokSize += span(s.buf, s.tok+s.tokSize, set, in)
	}
	return s.tokSize
}

// span returns the length of the run starting at off whose bytes are in set
// (in==true) or not in set (in==false), stopping at the buffer's nul
// terminator.
func span(buf []byte, off int, set string, in bool) int {
	n := 0
	for off+n < len(buf) {
		c := buf[off+n]
		if c == 0 {
			break
		}
		member := indexByte(set, c) >= 0
		if member != in {
			break
		}
		n++
	}
	return n
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// equalToken reports whether the current token's bytes equal cmp exactly.
func (s *State) equalToken(cmp string) bool {
	if s.tokSize == 0 {
		return cmp == ""
	}
	if s.tokSize != len(cmp) {
		return false
	}
	for i := 0; i < s.tokSize; i++ {
		if s.buf[s.tok+i] != cmp[i] {
			return false
		}
	}
	return true
}

// skipLongBracket recognizes `[` `=`^k `[` ... `]` `=`^k `]` with matching k,
// starting at the current token. Returns false (token untouched) if the
// current token is not the opening bracket.
func (s *State) skipLongBracket() bool {
	s.extendToken("[=")
	if s.tok >= len(s.buf) || s.buf[s.tok] != '[' {
		return false
	}

	c := s.tok + 1
	level := 0
	for c < len(s.buf) && s.buf[c] == '=' {
		level++
		c++
	}
	if c >= len(s.buf) || s.buf[c] != '[' {
		return false
	}

	s.nextTokenNoSkip()

	for {
		s.extendCToken("]")
		s.nextTokenNoSkip()
		s.extendToken("]=")

		if s.tok < len(s.buf) && s.buf[s.tok] == ']' {
			end := s.tok + 1
			endLevel := 0
			for end < len(s.buf) && s.buf[end] == '=' {
				endLevel++
				end++
			}
			s.tok = end
			s.tokSize = 1

			if end < len(s.buf) && s.buf[end] == ']' && level == endLevel {
				s.nextTokenNoSkip()
				break
			}
		} else {
			break // nul terminator: unterminated long bracket, caller treats as error
		}
	}
	return true
}

// skipComment skips one comment starting at the current token: a
// long-bracketed block if "--" is followed by one, otherwise everything up to
// the end of the line. It reports whether a comment was skipped.
func (s *State) skipComment() bool {
	s.extendToken("-[=")
	if s.tok >= len(s.buf) || s.buf[s.tok] != '-' {
		return false
	}
	if s.tok+1 >= len(s.buf) || s.buf[s.tok+1] != '-' {
		return false
	}

	s.tok += 2
	s.tokSize -= 2

	if !s.skipLongBracket() {
		s.extendCToken("\n")
		s.nextTokenNoSkip()
	}
	return true
}
