package service

import (
	"errors"

	"ipo-hype-tracker/internal/digest/candidate"
	"ipo-hype-tracker/internal/digest/repository"
)

var (
	ErrMissingIdentity      = candidate.ErrMissingIdentity
	ErrProviderUnavailable  = repository.ErrProviderUnavailable
	ErrSynthesisUnavailable = repository.ErrSynthesisUnavailable

	// ErrNoRankableCandidates is returned when no bounded candidate received a hype score.
	ErrNoRankableCandidates = errors.New("no rankable candidates")
	// ErrBatchDeliveryFailure is returned when every dispatch batch failed.
	ErrBatchDeliveryFailure = errors.New("all delivery batches failed")
	// ErrRunInProgress is returned when another run holds the run lock.
	ErrRunInProgress = errors.New("digest run already in progress")
	// ErrRunNotFound is returned when a run id is unknown.
	ErrRunNotFound = errors.New("digest run not found")
)
