package reader

import (
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// LogOptions controls what a LogSink records, mirroring the CLI's
// --log-clear/--log-unexpanded/--log-header flags.
type LogOptions struct {
	Clear      bool // truncate the log file instead of appending
	Unexpanded bool // log sources that never hit ModeExpanding too
	Header     bool // write the "-- LFV: vector expansion of NAME" banner
}

// DiagnosticRecord is the CBOR sidecar payload for one run: enough to
// correlate a plain-text log entry with the exact source and mode it came
// from without re-parsing the text banner.
type DiagnosticRecord struct {
	RunID     string
	Source    string
	Mode      string
	Timestamp string
}

// LogSink writes the plain-text log stream (and, if cborOut is set, a
// canonical CBOR diagnostic record per run) for one or more States sharing
// a log file.
type LogSink struct {
	w       io.Writer
	cborOut io.Writer
	opts    LogOptions
}

// NewLogSink wraps w (the plain-text destination) and an optional cborOut
// (the diagnostic sidecar destination; nil disables it).
func NewLogSink(w io.Writer, cborOut io.Writer, opts LogOptions) *LogSink {
	return &LogSink{w: w, cborOut: cborOut, opts: opts}
}

func (l *LogSink) banner(s *State, expanding bool) {
	if !expanding && !l.opts.Unexpanded {
		return
	}

	if l.opts.Header {
		if expanding {
			fmt.Fprintf(l.w, "-- LFV: vector expansion of %s\n", s.ResolveName())
		} else {
			fmt.Fprintf(l.w, "-- LFV: not expanding %s\n", s.ResolveName())
		}
	}

	if l.cborOut != nil {
		rec := DiagnosticRecord{
			RunID:     runID(s.ResolveName()),
			Source:    s.ResolveName(),
			Mode:      modeName(s.mode),
			Timestamp: timestamp(),
		}
		l.writeDiagnostic(rec)
	}
}

// body writes out, the bytes the driver just produced, to the log stream.
func (l *LogSink) body(out []byte) {
	if len(out) == 0 {
		return
	}
	l.w.Write(out)
}

// trailer is written once a run finishes, matching the original's habit of
// appending a trailing newline to close out a log file between runs.
func (l *LogSink) trailer() {
	fmt.Fprint(l.w, "\n")
}

// errorTrailer closes out a failed run with the §6 error line instead of the
// normal blank-line trailer.
func (l *LogSink) errorTrailer(name string, line int, msg string) {
	fmt.Fprintf(l.w, "-- LFV: expansion error ('%s' ln %d): %s\n", name, line, msg)
}

func modeName(m Mode) string {
	switch m {
	case ModeOff:
		return "off"
	case ModeExpanding:
		return "expanding"
	case ModeErrored:
		return "errored"
	default:
		return "pending"
	}
}

// runID derives a short, deterministic run-correlation ID from the source
// name and the current diagnostic record's position in time, so repeated
// runs over the same file in one log don't collide. It does not need to be
// cryptographically keyed (unlike idfactory's secret IDs): collision
// resistance, not secrecy, is all a log correlator needs.
func runID(name string) string {
	sum := blake2b.Sum256([]byte(name + timestamp()))
	return fmt.Sprintf("%x", sum[:8])
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (l *LogSink) writeDiagnostic(rec DiagnosticRecord) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return
	}

	type diagnosticRecordAlias DiagnosticRecord
	data, err := encMode.Marshal((*diagnosticRecordAlias)(&rec))
	if err != nil {
		return
	}
	l.cborOut.Write(data)
}
