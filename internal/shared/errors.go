package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a request with missing or invalid fields.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateCode occurs when a product code collides with an existing one.
	ErrDuplicateCode = errors.New("duplicate product code")
	// ErrStore indicates a persistence layer failure.
	ErrStore = errors.New("store failure")
)

// IsClientError reports whether err maps to a 4xx response rather than a
// logged 500.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrDuplicateCode)
}
