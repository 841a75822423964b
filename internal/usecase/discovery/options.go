package discovery

import (
	"time"

	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
)

// FailurePolicy decides what happens to the cursor when a swipe cannot be
// delivered to the backend.
type FailurePolicy string

const (
	// PolicyAdvance moves on and drops the action.
	PolicyAdvance FailurePolicy = "advance"
	// PolicyRetry retries with exponential backoff, then advances.
	PolicyRetry FailurePolicy = "retry"
	// PolicyBlock keeps the card on screen and returns the error.
	PolicyBlock FailurePolicy = "block"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case PolicyAdvance, PolicyRetry, PolicyBlock:
		return p, nil
	case "":
		return PolicyAdvance, nil
	default:
		return "", apperrors.InvalidArg("unknown failure policy " + s)
	}
}

type Options struct {
	BatchSize         int
	PrefetchThreshold int
	FailurePolicy     FailurePolicy
	MaxRetries        int
	RetryInterval     time.Duration
}

func DefaultOptions() Options {
	return Options{
		BatchSize:         10,
		PrefetchThreshold: 2,
		FailurePolicy:     PolicyAdvance,
		MaxRetries:        3,
		RetryInterval:     500 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	if o.PrefetchThreshold < 0 {
		o.PrefetchThreshold = d.PrefetchThreshold
	}
	if o.FailurePolicy == "" {
		o.FailurePolicy = d.FailurePolicy
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = d.MaxRetries
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = d.RetryInterval
	}
	return o
}
