package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested report, attachment or stored
	// file does not exist. Keeping this sentinel in domain allows adapters to
	// map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateKey signals a business-key collision: another live report
	// already owns the same (lower-cased title, owner) pair.
	ErrDuplicateKey = errors.New("duplicate business key")
	// ErrVersionConflict is the optimistic-lock mismatch sentinel. The
	// concrete error is VersionConflictError, which carries both versions.
	ErrVersionConflict = errors.New("version conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	// ErrForceRequired is returned when an editor edits a finalized report
	// without the force flag. It is a request error, not a role denial.
	ErrForceRequired       = errors.New("force flag required")
	ErrInvalidInput        = errors.New("invalid input")
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	ErrTokenRequired       = errors.New("download token required")
	ErrInvalidToken        = errors.New("download token invalid or expired")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidFileType     = errors.New("file type not allowed")
	ErrStorageFailure      = errors.New("storage failure")
)

// VersionConflictError carries both version numbers so the boundary can
// surface them to the caller for a retry with a fresh version.
type VersionConflictError struct {
	Expected int64
	Actual   int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: expected %d, stored %d", e.Expected, e.Actual)
}

func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}
