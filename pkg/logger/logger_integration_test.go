package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/nftcatalog/pkg/config"
)

// newTestLogger creates a debug-level Logger writing to buf.
func newTestLogger(buf *bytes.Buffer) Logger {
	return NewWithWriter(&config.Config{LogLevel: "debug"}, buf)
}

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
}

func parseLastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var last string
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = lines[i]
			break
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("failed to parse log line %q: %v", last, err)
	}
	return m
}

func TestTraceHandler_Fields(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	tests := []struct {
		name      string
		withSpan  bool
		logFn     func(Logger, context.Context)
		wantTrace bool
		wantAttrs map[string]any
	}{
		{
			name:      "enrichment gap inside span",
			withSpan:  true,
			logFn:     func(l Logger, ctx context.Context) { l.WarnContext(ctx, "collection missing", "collection", "0xB") },
			wantTrace: true,
			wantAttrs: map[string]any{"collection": "0xB", "level": "WARN"},
		},
		{
			name:     "store failure inside span",
			withSpan: true,
			logFn: func(l Logger, ctx context.Context) {
				l.ErrorContext(ctx, "list items failed", "error", errors.New("boom"), "code", 500)
			},
			wantTrace: true,
			wantAttrs: map[string]any{"error": "boom", "code": float64(500)},
		},
		{
			name:      "no span",
			logFn:     func(l Logger, ctx context.Context) { l.InfoContext(ctx, "trending ranked") },
			wantTrace: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newTestLogger(&buf)

			ctx := context.Background()
			if tc.withSpan {
				var span trace.Span
				ctx, span = otel.Tracer("test").Start(ctx, "catalog-op")
				defer span.End()
			}
			tc.logFn(log, ctx)

			entry := parseLastLine(t, &buf)
			_, hasTrace := entry["trace_id"]
			_, hasSpan := entry["span_id"]
			if hasTrace != tc.wantTrace || hasSpan != tc.wantTrace {
				t.Errorf("trace fields present = %v/%v, want %v", hasTrace, hasSpan, tc.wantTrace)
			}
			for k, v := range tc.wantAttrs {
				if entry[k] != v {
					t.Errorf("%s: got %v, want %v", k, entry[k], v)
				}
			}
		})
	}
}

// TestLoggerMiddleware_InjectsRequestIDAndTrace verifies request logs carry
// the chi request_id and the item route pattern.
func TestLoggerMiddleware_InjectsRequestIDAndTrace(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(log))
	r.Get("/api/items/{contract}/{index}", func(w http.ResponseWriter, req *http.Request) {
		_, span := otel.Tracer("test").Start(req.Context(), "handler-span")
		defer span.End()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/items/0xA/3", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := parseLastLine(t, &buf)
	if _, ok := entry["request_id"]; !ok {
		t.Error("expected request_id in request log")
	}
	if entry["method"] != "GET" {
		t.Errorf("expected method GET, got %v", entry["method"])
	}
	if entry["route"] != "/api/items/{contract}/{index}" {
		t.Errorf("route: got %v", entry["route"])
	}
	if entry["path"] != "/api/items/0xA/3" {
		t.Errorf("path: got %v", entry["path"])
	}
}

func TestLoggerMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{"listing", "/api/items", http.StatusOK, "INFO"},
		{"unknown item", "/api/items", http.StatusUnprocessableEntity, "WARN"},
		{"store down", "/api/items", http.StatusInternalServerError, "ERROR"},
		{"health poll", "/health", http.StatusOK, "DEBUG"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := Middleware(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path+"?limit=5", http.NoBody))

			entry := parseLastLine(t, &buf)
			if entry["level"] != tc.wantLevel {
				t.Errorf("level: got %v, want %s", entry["level"], tc.wantLevel)
			}
			if entry["query"] != "limit=5" {
				t.Errorf("query: got %v", entry["query"])
			}
		})
	}
}

func TestRecovery_WritesErrorEnvelope(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("enrichment exploded")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/items", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error"] != true || body["code"] != float64(500) {
		t.Errorf("unexpected envelope: %v", body)
	}
	entry := parseLastLine(t, &buf)
	if entry["msg"] != "panic recovered" || entry["stack"] == nil {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestNewWithWriter_ServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{
		LogLevel:       "INFO",
		ServiceName:    "nftcatalog",
		ServiceVersion: "1.2.3",
		Environment:    config.EnvTesting,
	}, &buf)

	log.Debug("dropped")
	log.With("collection", "0xA").Info("collection cached")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the info record, got %d lines", len(lines))
	}
	entry := parseLastLine(t, &buf)
	want := map[string]string{"service": "nftcatalog", "version": "1.2.3", "env": config.EnvTesting, "collection": "0xA"}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: got %v, want %s", k, entry[k], v)
		}
	}
}

// TestNestedSpans checks a listing and its per-item enrichment share a trace.
func TestNestedSpans(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)
	tracer := otel.Tracer("test")

	ctx, list := tracer.Start(context.Background(), "list items")
	log.InfoContext(ctx, "scan done", "count", 2)
	listEntry := parseLastLine(t, &buf)
	buf.Reset()

	ctx, enrich := tracer.Start(ctx, "collection summary")
	log.InfoContext(ctx, "collection cached", "collection", "0xA")
	enrichEntry := parseLastLine(t, &buf)

	enrich.End()
	list.End()

	if listEntry["trace_id"] != enrichEntry["trace_id"] {
		t.Errorf("expected same trace_id: %v vs %v", listEntry["trace_id"], enrichEntry["trace_id"])
	}
	if listEntry["span_id"] == enrichEntry["span_id"] {
		t.Error("expected different span_ids for listing and enrichment")
	}
}
