package server

import (
	"net/http"

	apperrors "github.com/uptimemock/uptimemock/internal/errors"
)

// HandleError is the single responder for operational errors.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}
