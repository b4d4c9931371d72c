package reader

import "github.com/mceicys/lfv-go/internal/lfverrors"

// Err* re-exports give internal/reader callers (pkg/lfv, cmd/lfv)
// a stable local name for the taxonomy without importing lfverrors
// themselves, mirroring how pkgs/errors exposes its Type codes.
const (
	ErrSyntax    = lfverrors.ClassSyntax
	ErrRuntime   = lfverrors.ClassRuntime
	ErrMemory    = lfverrors.ClassMemory
	ErrFile      = lfverrors.ClassFile
	ErrRecursion = lfverrors.ClassRecursion
)

// ExpandError is the error type every reader operation returns on failure.
type ExpandError = lfverrors.ExpandError

// FileError wraps a file-open/read failure into the taxonomy's FILE class.
func FileError(name string, cause error) *ExpandError { return lfverrors.File(name, cause) }
