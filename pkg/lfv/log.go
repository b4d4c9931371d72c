package lfv

import (
	"os"

	"github.com/mceicys/lfv-go/internal/reader"
)

// openLogSink opens logPath (plain-text log, appended unless opts.Clear)
// and logPath+".cbor" (diagnostic sidecar, always appended) and wraps them
// in a reader.LogSink. The returned func closes both files.
func openLogSink(logPath string, opts reader.LogOptions) (*reader.LogSink, func(), error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if opts.Clear {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	textFile, err := os.OpenFile(logPath, flags, 0o644)
	if err != nil {
		return nil, nil, reader.FileError(logPath, err)
	}

	cborFile, err := os.OpenFile(logPath+".cbor", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		textFile.Close()
		return nil, nil, reader.FileError(logPath+".cbor", err)
	}

	sink := reader.NewLogSink(textFile, cborFile, opts)
	closeFn := func() {
		textFile.Close()
		cborFile.Close()
	}
	return sink, closeFn, nil
}
