package auth

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"

	"github.com/ghuser/nftcatalog/pkg/httpx"
	"github.com/ghuser/nftcatalog/pkg/logger"
)

const (
	// SessionName is the cookie name carrying the session ID.
	SessionName = "nftcatalog_session"
	// SessionWalletKey is the session value holding the signed-in wallet address.
	SessionWalletKey = "wallet"
)

var walletValidator = validator.New()

// RequireWallet is a chi middleware that enforces a signed-in wallet via session cookies.
// It reads the session cookie, extracts the wallet and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a well-formed wallet.
//
// After this middleware, handlers can safely call auth.WalletFromCtx(r.Context()).
func RequireWallet(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			wallet, ok := session.Values[SessionWalletKey].(string)
			if !ok || wallet == "" {
				log.WarnContext(r.Context(), "session missing wallet")
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if err := walletValidator.Var(wallet, "eth_addr"); err != nil {
				log.WarnContext(r.Context(), "invalid wallet in session", "wallet", wallet, "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "invalid session data")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWallet(r.Context(), wallet)))
		})
	}
}
