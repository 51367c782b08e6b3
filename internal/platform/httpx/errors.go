package httpx

import (
	"errors"
	"net/http"

	"github.com/mitienda/mitienda/internal/shared"
)

// RespondError maps domain errors to HTTP problem responses. Duplicate
// product codes are reported as 400 alongside validation failures; store
// failures stay generic so internals never leak to the caller.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicateCode):
		Problem(w, http.StatusBadRequest, "Duplicate Code", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
