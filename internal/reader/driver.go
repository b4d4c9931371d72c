package reader

import (
	"bytes"

	"github.com/mceicys/lfv-go/internal/lfverrors"
)

// sentinelCall is the fake function call a source opts into expansion with.
// It is blanked (replaced with spaces) once recognized so it is never
// actually invoked by the host.
const sentinelCall = "LFV_EXPAND_VECTORS()"

// Run drives a State to completion, returning the fully expanded (or
// unchanged, per mode) source and the first error encountered, if any. It
// is the non-streaming entry point; Next is the streaming one.
func (s *State) Run() (out []byte, err *lfverrors.ExpandError) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(fatalAbort)
			if !ok {
				panic(r)
			}
			s.recordErr(abort.err)
			err = s.earliestErr
			s.logError()
		}
	}()

	s.probeSentinel()

	if s.mode != ModeExpanding {
		out := s.remainder()
		s.logOutput(out)
		return out, s.earliestErr
	}

	for {
		res := s.expandStat()
		if res == exUnfit {
			break
		}
		if res == exErr {
			break
		}
	}
	if s.earliestErr == nil {
		if s.expandRetstat() == exErr {
			// error already recorded by the failing production
		}
	}

	if s.earliestErr != nil {
		s.logError()
		return nil, s.earliestErr
	}

	out := s.buf[:s.numBuf]
	s.logOutput(out)
	return out, nil
}

// logOutput appends out to the log sink's body, if one is attached and this
// run's mode qualifies under LogOptions.Unexpanded.
func (s *State) logOutput(out []byte) {
	if s.log == nil {
		return
	}
	if s.mode != ModeExpanding && !s.log.opts.Unexpanded {
		return
	}
	s.log.body(out)
	s.log.trailer()
}

// logChunk is logOutput's streaming counterpart: it writes body on every
// call but the trailer only once, when the caller reports this was the last
// chunk.
func (s *State) logChunk(out []byte, done bool) {
	if s.log == nil {
		return
	}
	if s.mode != ModeExpanding && !s.log.opts.Unexpanded {
		return
	}
	s.log.body(out)
	if done {
		s.log.trailer()
	}
}

// logError writes the §6 error trailer for a run that ended in
// s.earliestErr, if a log sink is attached.
func (s *State) logError() {
	if s.log == nil || s.earliestErr == nil || s.errLogged {
		return
	}
	s.errLogged = true
	s.log.errorTrailer(s.ResolveName(), s.earliestErr.Line, s.earliestErr.Msg)
}

// Next drives one more statement's worth of expansion and returns the bytes
// consumed so far, for callers streaming output incrementally (mirroring
// the original's per-call Lua reader callback). It returns io.EOF-shaped
// exhaustion by returning a zero-length slice once nothing more remains.
func (s *State) Next() (out []byte, done bool, err *lfverrors.ExpandError) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(fatalAbort)
			if !ok {
				panic(r)
			}
			s.recordErr(abort.err)
			err = s.earliestErr
			done = true
			s.logError()
		}
	}()

	s.flushConsumed()

	if s.mode == ModeInit || s.mode == ModeForcePending || s.mode == ModeAutoPending {
		s.probeSentinel()
	}

	switch s.mode {
	case ModeExpanding:
		res := s.expandStat()
		done := false
		if res == exUnfit {
			if s.expandRetstat() == exErr {
				s.logError()
				return nil, true, s.earliestErr
			}
			s.mode = ModeOff // nothing left to expand; pass the remainder through
		} else if res == exErr {
			s.logError()
			return nil, true, s.earliestErr
		}
		out = append([]byte(nil), s.buf[:s.tok]...)
		s.logChunk(out, done)
		return out, done, nil

	case ModeErrored:
		s.logError()
		return nil, true, s.earliestErr

	default: // ModeOff
		if s.tok != 0 {
			out = append([]byte(nil), s.buf[:s.tok]...)
			s.logChunk(out, false)
			return out, false, nil
		}
		if s.numBuf == 0 {
			if s.readMore() == 0 {
				s.logChunk(nil, true)
				return nil, true, nil
			}
		}
		out = append([]byte(nil), s.buf[:s.numBuf]...)
		s.tok = s.numBuf
		done := s.src == nil
		s.logChunk(out, done)
		return out, done, nil
	}
}

// probeSentinel looks for a leading call to LFV_EXPAND_VECTORS(), blanking
// it if found, and resolves the initial mode transition out of ModeInit /
// ModeForcePending accordingly. Safe to call once; it's a no-op outside
// those two modes.
func (s *State) probeSentinel() {
	if s.mode != ModeInit && s.mode != ModeForcePending {
		return
	}

	if s.skipBOMAndShebang {
		s.skipLeadingBOMAndShebang()
		s.skipBOMAndShebang = false
	}

	s.nextTokenSkipComments()
	s.extendToken(identifierChars + "()")

	if s.equalToken(sentinelCall) {
		for i := s.tok; i < s.tok+s.tokSize; i++ {
			s.buf[i] = ' '
		}
		s.mode = ModeExpanding
		s.nextTokenSkipComments()
	} else if s.mode == ModeForcePending {
		s.mode = ModeExpanding
	} else {
		s.mode = ModeOff
	}

	if s.log != nil {
		s.log.banner(s, s.mode == ModeExpanding)
	}
}

// skipLeadingBOMAndShebang blanks a UTF-8 BOM and/or a leading line that
// starts with '#' (such as a "#!" shebang),
// matching how the file-opening entry point tolerates both ahead of Lua
// source without disturbing line numbers (the shebang line is blanked, not
// removed, so later line numbers in diagnostics stay accurate).
func (s *State) skipLeadingBOMAndShebang() {
	const bom = "\xef\xbb\xbf"
	off := 0
	if s.numBuf >= len(bom) && bytes.Equal(s.buf[:len(bom)], []byte(bom)) {
		for i := 0; i < len(bom); i++ {
			s.buf[i] = ' '
		}
		off = len(bom)
	}

	if s.numBuf > off && s.buf[off] == '#' {
		for i := off; i < s.numBuf && s.buf[i] != '\n'; i++ {
			s.buf[i] = ' '
		}
	}
}

// remainder returns the buffer contents not yet consumed by Run, used for
// the ModeOff/errored passthrough path of the non-streaming entry point.
func (s *State) remainder() []byte {
	if s.src == nil {
		return s.buf[:s.numBuf]
	}

	for s.readMore() > 0 {
	}
	return s.buf[:s.numBuf]
}
