package handlers

import (
	"net/http"

	"github.com/ghuser/nftcatalog/pkg/errhttp"
	"github.com/ghuser/nftcatalog/pkg/logger"
	"github.com/ghuser/nftcatalog/pkg/telemetry"
)

// writeError logs and reports server-side failures with their full chain,
// then writes the envelope.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	if code := errhttp.Code(err); code >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), op+" failed", "code", code, "error", err)
		telemetry.CaptureError(r.Context(), op, err)
	}
	errhttp.WriteError(w, err)
}
