package performance

import "errors"

var (
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrSnapshotNotFound = errors.New("performance snapshot not found")
	ErrUpstreamRead     = errors.New("upstream read failed")
	ErrWriteConflict    = errors.New("concurrent snapshot write conflict")
)

// IsRetryable reports whether a failed computation may succeed when run again
// with unchanged inputs.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUpstreamRead) || errors.Is(err, ErrWriteConflict)
}
