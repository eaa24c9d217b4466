package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller errors: bad paths, wrong path kinds,
	// empty digests, empty chunk directories.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidChunkName marks a chunk directory entry that is not a
	// canonical ordinal file.
	ErrInvalidChunkName = fmt.Errorf("%w: invalid chunk name", ErrInvalidArgument)

	// ErrMissingChunk marks a gap in the ordinal sequence.
	ErrMissingChunk = errors.New("missing chunk")

	// ErrDigestMismatch is returned by Verification.Err for a failed merge.
	ErrDigestMismatch = errors.New("digest mismatch")
)

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IOError reports a read, write or transfer failure with the file involved.
// Ordinal is zero when the failure is not tied to a chunk.
type IOError struct {
	Op      string
	Path    string
	Ordinal int
	Err     error
}

func (e *IOError) Error() string {
	if e.Ordinal > 0 {
		return fmt.Sprintf("%s chunk %d %q: %v", e.Op, e.Ordinal, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func ioErr(op, path string, ordinal int, err error) error {
	return &IOError{Op: op, Path: path, Ordinal: ordinal, Err: err}
}
