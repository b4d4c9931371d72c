package reader

import (
	"github.com/mceicys/lfv-go/internal/invariant"
	"github.com/mceicys/lfv-go/internal/lfverrors"
)

// ceilPow2 rounds n up to the next power of two. Returns n itself if n is
// already one.
func ceilPow2(n int) int {
	if n <= 0 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// ensureSize grows buf to at least n bytes (capacity), reporting a memory
// error through earliestErr and leaving buf untouched on overflow.
func (s *State) ensureSize(n int) bool {
	if n < 0 {
		s.recordErr(lfverrors.Memory("buffer size computation overflowed", nil))
		return false
	}
	if len(s.buf) >= n {
		return true
	}
	newSize := ceilPow2(n)
	if newSize < n {
		s.recordErr(lfverrors.Memory("buffer size rounds past int range", nil))
		return false
	}
	grown := make([]byte, newSize)
	copy(grown, s.buf[:s.numBuf])
	s.buf = grown
	return true
}

// readMore appends bytes from src, growing the buffer if needed. Returns the
// number of bytes appended; 0 means EOF or no source (in-memory State).
func (s *State) readMore() int {
	if s.src == nil {
		return 0
	}

	if s.numBuf >= len(s.buf)-1 {
		if !s.ensureSize(s.numBuf + readSize + 1) {
			return 0
		}
	}

	n, _ := s.src.Read(s.buf[s.numBuf : len(s.buf)-1])
	s.numBuf += n
	s.buf[s.numBuf] = 0
	return n
}

// shiftRight grows the buffer if needed, then moves buf[start:numBuf] to
// [start+amount:numBuf+amount), leaving a gap of amount bytes at start for
// the caller to fill. Updates numBuf, beforeSkip, tok, and every mark >=
// start when updateMarks is set.
func (s *State) shiftRight(start, amount int, updateMarks bool) bool {
	invariant.Precondition(amount >= 0, "shiftRight amount must be non-negative")
	invariant.Precondition(start <= s.numBuf, "shiftRight start must be within buffer")

	if amount == 0 {
		return true
	}
	if !s.ensureSize(s.numBuf + amount + 1) {
		return false
	}

	copy(s.buf[start+amount:s.numBuf+amount], s.buf[start:s.numBuf])
	s.numBuf += amount
	s.buf[s.numBuf] = 0

	if s.beforeSkip >= start {
		s.beforeSkip += amount
	}
	if s.tok >= start {
		s.tok += amount
	}
	if updateMarks {
		for i, m := range s.marks {
			if m >= start {
				s.marks[i] = m + amount
			}
		}
	}
	return true
}

// insertAt shifts bytes right at pos to make room, then copies data into the
// gap. Marks at or past pos are adjusted.
func (s *State) insertAt(pos int, data []byte) bool {
	if !s.shiftRight(pos, len(data), true) {
		return false
	}
	copy(s.buf[pos:pos+len(data)], data)
	return true
}

// flushConsumed shifts the trailing bytes [tok, numBuf) to offset 0 and
// resets tok to 0. Called between streaming deliveries once the caller has
// consumed [0, tok).
func (s *State) flushConsumed() {
	if s.tok == 0 {
		return
	}
	n := s.numBuf - s.tok
	copy(s.buf[:n], s.buf[s.tok:s.numBuf])
	s.numBuf = n
	s.buf[s.numBuf] = 0

	for i, m := range s.marks {
		s.marks[i] = m - s.tok
	}
	s.beforeSkip -= s.tok
	s.tok = 0
}
