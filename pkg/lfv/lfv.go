// Package lfv is the public API for vector-expansion preprocessing: given
// Lua-family source that opts in with a leading LFV_EXPAND_VECTORS() call
// (or is forced), it rewrites v2/v3/q4-prefixed identifiers into
// per-component scalar code before handing the result to a host runtime.
package lfv

import (
	"io"
	"os"

	"github.com/mceicys/lfv-go/internal/reader"
)

// HostVersion gates numeral strictness (see internal/reader's numeral
// production); empty keeps the engine's own default ("v5.4"). Set by
// cmd/lfv's --host-version flag or an .lfvrc.json entry before calling any
// of this package's functions.
var HostVersion string

// ExpandFile reads path, expands it, and returns the result. If logPath is
// non-empty, a plain-text log (and CBOR diagnostic sidecar, logPath+".cbor")
// is appended to it.
func ExpandFile(path string, force bool, logPath string) ([]byte, error) {
	return ExpandFileWithOptions(path, force, logPath, reader.LogOptions{Header: true})
}

// ExpandFileWithOptions is ExpandFile with full control over the log
// format, for callers (cmd/lfv) that expose --log-clear/--log-unexpanded/
// --log-header individually.
func ExpandFileWithOptions(path string, force bool, logPath string, opts reader.LogOptions) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, reader.FileError(path, err)
	}
	defer f.Close()

	s := reader.NewFromReader(f, path, force, false, true)
	applyHostVersion(s)

	if logPath != "" {
		sink, closeLog, err := openLogSink(logPath, opts)
		if err != nil {
			return nil, err
		}
		defer closeLog()
		s.SetLog(sink)
	}

	out, expandErr := s.Run()
	if expandErr != nil {
		return nil, expandErr
	}
	return out, nil
}

// ExpandString expands source in memory. An empty name falls back to a
// truncated form of source itself as the diagnostic name, matching the
// original loader's "chunk is used as the name" default.
func ExpandString(source, name string, force bool, logPath string) ([]byte, error) {
	s := reader.New([]byte(source), name, force, false)
	applyHostVersion(s)

	if logPath != "" {
		sink, closeLog, err := openLogSink(logPath, reader.LogOptions{Header: true})
		if err != nil {
			return nil, err
		}
		defer closeLog()
		s.SetLog(sink)
	}

	out, expandErr := s.Run()
	if expandErr != nil {
		return nil, expandErr
	}
	return out, nil
}

func applyHostVersion(s *reader.State) {
	if HostVersion != "" {
		s.HostVersion = HostVersion
	}
}

// Reader streams expanded output, implementing io.Reader (and therefore
// io.ReadCloser via Close). It replaces the original's pull-based
// read(state)->(ptr,size) reader callback with the idiomatic Go shape.
type Reader struct {
	s        *reader.State
	closer   io.Closer
	pending  []byte
	closeLog func()
}

// NewReader wraps src for streaming expansion. skipBOM requests blanking a
// leading UTF-8 BOM and/or shebang line, as file-opening entry points do.
func NewReader(src io.Reader, name string, force bool, skipBOM bool, logPath string) (*Reader, error) {
	s := reader.NewFromReader(src, name, force, true, skipBOM)
	applyHostVersion(s)

	r := &Reader{s: s}
	if c, ok := src.(io.Closer); ok {
		r.closer = c
	}

	if logPath != "" {
		sink, closeLog, err := openLogSink(logPath, reader.LogOptions{Header: true})
		if err != nil {
			return nil, err
		}
		r.closeLog = closeLog
		s.SetLog(sink)
	}
	return r, nil
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		out, done, err := r.s.Next()
		if err != nil {
			return 0, err
		}
		if done {
			if len(out) == 0 {
				return 0, io.EOF
			}
			r.pending = out
			break
		}
		r.pending = out
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Close releases the underlying source (if it is an io.Closer) and the log
// sink, if any.
func (r *Reader) Close() error {
	if r.closeLog != nil {
		r.closeLog()
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// ResolveName returns a human-readable source name for diagnostics.
func (r *Reader) ResolveName() string { return r.s.ResolveName() }
