package uploader

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	ErrUnauthorised     = errors.New("unauthorised (invalid or expired credentials)")
	ErrForbidden        = errors.New("permission denied")
	ErrNotFound         = errors.New("spreadsheet or worksheet not found")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrRetriesExhausted = errors.New("max retries reached - could not append data due to API rate limit")
	ErrTooManyColumns   = errors.New("too many columns - only columns A to Z are supported")
)

// IsUnauthorised returns true if the error is (or wraps) a 401 response.
func IsUnauthorised(err error) bool {
	return is(err, ErrUnauthorised, http.StatusUnauthorized)
}

// IsForbidden returns true if the error is (or wraps) a 403 response.
func IsForbidden(err error) bool {
	return is(err, ErrForbidden, http.StatusForbidden)
}

// IsNotFound returns true if the error is (or wraps) a 404 response.
func IsNotFound(err error) bool {
	return is(err, ErrNotFound, http.StatusNotFound)
}

// IsRateLimited returns true if the error is (or wraps) a 429 response.
func IsRateLimited(err error) bool {
	return is(err, ErrRateLimited, http.StatusTooManyRequests)
}

func is(err error, sentinel error, code int) bool {
	if errors.Is(err, sentinel) {
		return true
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}

	return false
}
