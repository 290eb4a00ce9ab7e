package registry

import "codeberg.org/mutker/sstat/internal/errors"

const (
	ErrMissingArgument = errors.ErrorCode("registry_missing_argument")
	ErrInvalidArgument = errors.ErrorCode("registry_invalid_argument")
)
