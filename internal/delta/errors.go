package delta

import "codeberg.org/mutker/sstat/internal/errors"

const (
	ErrSampleFailed   = errors.ErrorCode("delta_sample_failed")
	ErrNoBaseline     = errors.ErrorCode("delta_no_baseline")
	ErrNoProgress     = errors.ErrorCode("delta_no_progress")
	ErrCounterReset   = errors.ErrorCode("delta_counter_reset")
	ErrOutOfBounds    = errors.ErrorCode("delta_out_of_bounds")
	ErrUnknownNetLink = errors.ErrorCode("delta_unknown_interface")
)
