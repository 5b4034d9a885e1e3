package repository

import "errors"

var (
	// ErrProviderUnavailable marks a signal provider that failed, timed out or answered success:false.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrSynthesisUnavailable marks a synthesis call that failed or produced no hype score.
	ErrSynthesisUnavailable = errors.New("synthesis unavailable")
)
