package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/roster/pkg/logging"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestChainOrder(t *testing.T) {
	var log []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				log = append(log, "start-"+name)
				next.ServeHTTP(w, r)
				log = append(log, "end-"+name)
			})
		}
	}
	h := Chain(mark("1"), mark("2"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log = append(log, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"start-1", "start-2", "handler", "end-2", "end-1"}, log)
}

func TestLoggerRecordsStatusAndRequestID(t *testing.T) {
	tl := logging.NewTestLogger(t)
	var fromCtx string

	h := Chain(chimw.RequestID, Logger(tl.Logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logging.RequestID(r.Context())
		logging.FromContext(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", fromCtx)
	assert.True(t, tl.Contains(`"status":418`))
	assert.True(t, tl.Contains(`"request_id":"req-42"`))
	assert.True(t, tl.Contains(`"path":"/api/v1/stats"`))
	assert.True(t, tl.Contains("inside handler"))
}

func TestRecovery(t *testing.T) {
	tl := logging.NewTestLogger(t)
	h := Recovery(tl.Logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.True(t, tl.Contains("Panic recovered"))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{name: "any origin", origin: "https://a.org", want: "*"},
		{name: "wildcard entry", origins: []string{"*"}, origin: "https://a.org", want: "*"},
		{name: "listed origin", origins: []string{"https://a.org"}, origin: "https://a.org", want: "https://a.org"},
		{name: "unlisted origin", origins: []string{"https://a.org"}, origin: "https://evil.org", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCORSConfig()
			cfg.AllowedOrigins = tt.origins
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			CORS(cfg)(http.HandlerFunc(ok)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), APIKeyHeader)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(DefaultCORSConfig())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/merge", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestRequireKey(t *testing.T) {
	guarded := RequireKey("s3cret", logging.NewNopLogger())(http.HandlerFunc(ok))

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "wrong", header: APIKeyHeader, value: "nope", want: http.StatusUnauthorized},
		{name: "header", header: APIKeyHeader, value: "s3cret", want: http.StatusOK},
		{name: "bearer", header: "Authorization", value: "Bearer s3cret", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/merge", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("empty key disables the guard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireKey("", logging.NewNopLogger())(http.HandlerFunc(ok)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
