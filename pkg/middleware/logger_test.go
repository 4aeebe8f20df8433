package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStructuredLogger(t *testing.T) {
	t.Run("Logs Request And Response Groups", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		r := chi.NewRouter()
		r.Use(chimw.RequestID)
		r.Use(NewStructuredLogger(logger))
		r.Post("/api/transfers", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Idempotent-Replay", "true")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/api/transfers", nil)
		req.Header.Set("Idempotency-Key", "tr-1")
		rr := httptest.NewRecorder()

		// Act
		r.ServeHTTP(rr, req)

		// Assert
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "request completed", line["msg"])

		request := line["request"].(map[string]any)
		assert.Equal(t, "/api/transfers", request["path"])
		assert.Equal(t, "tr-1", request["idempotency_key"])
		assert.NotEmpty(t, request["id"])

		response := line["response"].(map[string]any)
		assert.Equal(t, float64(http.StatusOK), response["status"])
		assert.Equal(t, true, response["replayed"])
	})

	t.Run("Server Errors Log At Error Level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		h := NewStructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "ERROR", line["level"])
	})
}
