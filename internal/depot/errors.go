package depot

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented is returned by a storage capability the backend does not provide.
	ErrNotImplemented = errors.New("storage capability not implemented")

	// ErrVerification matches any *VerificationError.
	ErrVerification = errors.New("content verification failed")

	// ErrLinkConflict matches any *LinkConflictError.
	ErrLinkConflict = errors.New("link conflict")

	// ErrInvalidUnitID indicates a unit id that cannot be used as a single path element.
	ErrInvalidUnitID = errors.New("invalid unit id")
)

// VerificationError reports a written file whose size differs from the unit's metadata.
type VerificationError struct {
	Path     string
	Expected int64
	Actual   int64
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("size mismatch for %s: expected %d bytes, got %d", e.Path, e.Expected, e.Actual)
}

func (e *VerificationError) Is(target error) bool { return target == ErrVerification }

// LinkConflictError reports an entry at a link path that is not a symlink to the
// expected target. Target is empty when the entry is not a symlink at all.
type LinkConflictError struct {
	Link     string
	Expected string
	Target   string
}

func (e *LinkConflictError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("link path %s exists and is not a symbolic link", e.Link)
	}
	return fmt.Sprintf("link %s points to %s, expected %s", e.Link, e.Target, e.Expected)
}

func (e *LinkConflictError) Is(target error) bool { return target == ErrLinkConflict }
