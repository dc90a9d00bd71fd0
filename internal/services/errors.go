package services

import "errors"

// Every failure a service can produce maps onto one of these outcomes so
// handlers never leak raw persistence errors to the boundary.
var (
	ErrUnauthorized    = errors.New("not authenticated")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrSelfReport      = errors.New("you cannot report your own post")
	ErrAlreadyReported = errors.New("you have already reported this post")
	ErrAlreadySaved    = errors.New("narration already saved")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrAIUnavailable   = errors.New("assistant is currently unavailable")
)

// QuotaExceededError carries the full decision so callers can render
// remaining/limit alongside the reason.
type QuotaExceededError struct {
	Decision QuotaDecision
}

func (e *QuotaExceededError) Error() string {
	if e.Decision.Reason != "" {
		return e.Decision.Reason
	}
	return ErrQuotaExceeded.Error()
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
