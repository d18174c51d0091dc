package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/nftcatalog/pkg/config"
)

// sentryFlushTimeout bounds SentryFlush at process exit.
const sentryFlushTimeout = 2 * time.Second

// SentryOptions builds the client options for process. Release follows the
// "<service>@<version>" form so API and worker issues group per deploy.
func SentryOptions(cfg *config.Config, process Process) sentry.ClientOptions {
	sampleRate := 0.2
	if cfg.Environment != config.EnvProduction {
		sampleRate = 1.0
	}
	return sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		ServerName:       cfg.ServiceName + "-" + string(process),
		TracesSampleRate: sampleRate,
		Tags: map[string]string{
			"catalog.process": string(process),
		},
	}
}

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config, process Process) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(SentryOptions(cfg, process)); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(sentryFlushTimeout)
}

// SentryMiddleware captures panics and attaches a hub to each request.
// Repanic is set so the outer Recovery middleware still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	h := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return h.Handle
}

// CaptureError reports a failed catalog operation. The request hub is used
// when ctx carries one so the event keeps its HTTP context.
func CaptureError(ctx context.Context, op string, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("catalog.op", op)
		hub.CaptureException(err)
	})
}
