// Package errhttp maps domain sentinel errors to the catalog error envelope.
// Add a case to mapError for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/nftcatalog/pkg/httpx"
	catalogdomain "github.com/ghuser/nftcatalog/services/catalog/domain"
)

// StatusConflict is the envelope code callers expect for duplicate creation.
// It is 501 rather than 409 for compatibility with existing clients.
const StatusConflict = http.StatusNotImplemented

// WriteError maps err to an envelope code and writes {"error":true,"message","code"}
// with the same HTTP status. Uses errors.Is() so wrapped sentinel errors are
// matched correctly. The message is the sentinel's text, so store internals
// never leak; invalid-argument errors keep their full detail.
func WriteError(w http.ResponseWriter, err error) {
	code, message := mapError(err)
	httpx.JSONError(w, code, message)
}

// Code returns the envelope code WriteError would use for err.
func Code(err error) int {
	code, _ := mapError(err)
	return code
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, catalogdomain.ErrNotFound):
		return http.StatusUnprocessableEntity, catalogdomain.ErrNotFound.Error() // 422
	case errors.Is(err, catalogdomain.ErrEmptyResult):
		return http.StatusUnprocessableEntity, catalogdomain.ErrEmptyResult.Error() // 422
	case errors.Is(err, catalogdomain.ErrReferenceNotFound):
		return http.StatusUnprocessableEntity, catalogdomain.ErrReferenceNotFound.Error() // 422
	case errors.Is(err, catalogdomain.ErrConflict):
		return StatusConflict, catalogdomain.ErrConflict.Error() // 501
	case errors.Is(err, catalogdomain.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error() // 400
	case errors.Is(err, catalogdomain.ErrPersistence):
		return http.StatusInternalServerError, catalogdomain.ErrPersistence.Error() // 500
	case errors.Is(err, catalogdomain.ErrConnectivity):
		return http.StatusInternalServerError, catalogdomain.ErrConnectivity.Error() // 500
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError) // 500
	}
}
