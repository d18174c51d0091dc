package auth

import (
	"context"
	"errors"
	"strings"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const walletKey contextKey = "wallet"

// ErrWalletNotFound is returned when no wallet exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrWalletNotFound = errors.New("wallet not found in context")

// WalletFromCtx extracts the authenticated wallet address from the request context.
func WalletFromCtx(ctx context.Context) (string, error) {
	wallet, ok := ctx.Value(walletKey).(string)
	if !ok || wallet == "" {
		return "", ErrWalletNotFound
	}
	return wallet, nil
}

// WithWallet returns a new context carrying wallet, normalized to lower case.
func WithWallet(ctx context.Context, wallet string) context.Context {
	return context.WithValue(ctx, walletKey, strings.ToLower(wallet))
}
