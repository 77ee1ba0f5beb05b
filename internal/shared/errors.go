package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Catalog errors
	ErrRateLimited   = fmt.Errorf("rate limited")
	ErrUnauthorized  = fmt.Errorf("unauthorized")
	ErrMovieNotFound = fmt.Errorf("movie not found")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotSynced          = fmt.Errorf("saved locally but not synced")

	// List errors
	ErrDuplicateMovie = fmt.Errorf("movie already in list")
	ErrInvalidMovie   = fmt.Errorf("invalid movie")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
