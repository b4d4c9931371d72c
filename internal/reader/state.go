// Package reader implements the streaming vector-expansion engine: a
// recursive-descent recognizer over a growable byte buffer that rewrites
// v2/v3/q4-prefixed identifiers into per-component scalar code in place.
package reader

import (
	"fmt"
	"io"

	"github.com/mceicys/lfv-go/internal/invariant"
	"github.com/mceicys/lfv-go/internal/lfverrors"
)

// Mode is the top-level expansion mode of a State.
type Mode int

const (
	// ModeOff passes input through unchanged.
	ModeOff Mode = iota
	// ModeInit is the initial state before the first token has been probed
	// for the sentinel call.
	ModeInit
	// ModeForcePending is like ModeInit but the caller forced expansion; the
	// sentinel, if present, is still blanked, but absence doesn't disable
	// expansion.
	ModeForcePending
	// ModeAutoPending names a pending auto-detect state. Next treats it like
	// ModeInit, but no code path sets it: a State starts in ModeInit or
	// ModeForcePending.
	ModeAutoPending
	// ModeExpanding is the steady per-statement expansion loop.
	ModeExpanding
	// ModeErrored means an error was recorded and no further progress is
	// made; reads return nothing more.
	ModeErrored
)

const (
	readSize     = 256
	maxRecursion = 200
)

// Production outcomes. Every recognizer method returns one of these three.
const (
	exOk = iota
	exUnfit
	exErr
)

// delayedDup is the record ExpandExp publishes when its caller wants to
// decide what to do with a matched expression's vector marks instead of
// duplicating immediately.
type delayedDup struct {
	expStart   int
	marksStart int
	valid      bool
}

// State is one rewriting run's session object. It owns its buffer and mark
// stack exclusively; the caller owns the input source handle. Not safe for
// concurrent use by multiple goroutines.
type State struct {
	src  io.Reader
	name string
	chunk string // used to resolve a name when none was given to ExpandString

	buf    []byte
	numBuf int
	tok    int
	tokSize int
	line   int

	// beforeSkip is tok captured after consuming a token and the whitespace
	// after it, but before any comment skip; ExpandExp uses it as the end of
	// the range it duplicates (duplicateVecs trims the trailing whitespace).
	beforeSkip int

	marks []int
	level int

	mode  Mode
	force bool

	earliestErr *lfverrors.ExpandError
	errLogged   bool

	stream            bool
	skipBOMAndShebang bool

	// HostVersion gates numeral strictness (see recognizer.go numeral rule).
	HostVersion string

	log *LogSink
}

// New constructs a State reading from an in-memory source. name is used for
// diagnostics; if empty, ResolveName falls back to a truncated form of
// source itself, mirroring the original loader's "chunk is used as the name"
// behavior when no chunk name is given.
func New(source []byte, name string, force, stream bool) *State {
	invariant.NotNil(source, "source")

	s := &State{
		name:        name,
		chunk:       string(source),
		line:        1,
		force:       force,
		stream:      stream,
		HostVersion: "v5.4",
		mode:        initMode(force),
	}
	s.buf = append([]byte(nil), source...)
	s.buf = append(s.buf, 0)
	s.numBuf = len(source)
	return s
}

// NewFromReader constructs a State streaming from an io.Reader (typically a
// file). skipBOM requests blanking a leading UTF-8 BOM and shebang line, as
// the file-opening entry point does but the in-memory one does not.
func NewFromReader(src io.Reader, name string, force, stream, skipBOM bool) *State {
	invariant.NotNil(src, "src")

	s := &State{
		src:               src,
		name:              name,
		line:              1,
		force:             force,
		stream:            stream,
		skipBOMAndShebang: skipBOM,
		HostVersion:       "v5.4",
		mode:              initMode(force),
	}
	s.ensureSize(readSize)
	s.readMore()
	return s
}

func initMode(force bool) Mode {
	if force {
		return ModeForcePending
	}
	return ModeInit
}

// ResolveName returns a human-readable source name for diagnostics.
func (s *State) ResolveName() string {
	if s.name != "" {
		return s.name
	}
	if len(s.chunk) > 40 {
		return s.chunk[:40] + "..."
	}
	return s.chunk
}

// SetLog attaches a log sink; see log.go.
func (s *State) SetLog(l *LogSink) { s.log = l }

// Err returns the earliest recorded error, or nil.
func (s *State) Err() *lfverrors.ExpandError { return s.earliestErr }

// recordErr latches the first error only, per first-error-wins semantics.
func (s *State) recordErr(err *lfverrors.ExpandError) *lfverrors.ExpandError {
	if s.earliestErr == nil {
		s.earliestErr = err
		s.mode = ModeErrored
	}
	return s.earliestErr
}

// fail builds and records a syntax error at the current line, returning
// exErr for the caller to propagate upward.
func (s *State) fail(line int, format string, args ...interface{}) int {
	s.recordErr(lfverrors.Syntax(line, fmt.Sprintf(format, args...)))
	return exErr
}
