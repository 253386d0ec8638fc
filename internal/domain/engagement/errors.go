package engagement

import "errors"

var (
	ErrInvalidWorkReport = errors.New("invalid work report")
)
