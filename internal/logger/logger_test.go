package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	t.Run("Production", func(t *testing.T) {
		Init("production")
		assert.NotNil(t, log)
	})

	t.Run("Development", func(t *testing.T) {
		Init("development")
		assert.NotNil(t, log)
	})
}

func TestL_LazyInit(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	log = nil
	t.Setenv("APP_ENV", "test")

	assert.NotNil(t, L())
	assert.NotNil(t, log)
}

func TestFromCtx(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	originalLog := log
	log = zap.New(core)
	defer func() { log = originalLog }()

	t.Run("WithRequestID", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-abc-123")

		FromCtx(ctx).Info("with id")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		assert.Equal(t, "req-abc-123", logs[0].ContextMap()["request_id"])
	})

	t.Run("WithoutRequestID", func(t *testing.T) {
		FromCtx(context.Background()).Info("without id")

		logs := observed.TakeAll()
		assert.Len(t, logs, 1)
		_, ok := logs[0].ContextMap()["request_id"]
		assert.False(t, ok)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFrom(r.Context()))
	})
	handler := RequestIDMiddleware(next)

	t.Run("Generates ID when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/orders", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Preserves existing ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/orders", nil)
		req.Header.Set("X-Request-ID", "test-id-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, "test-id-123", w.Header().Get("X-Request-ID"))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	originalLog := log
	log = zap.New(core)
	defer func() { log = originalLog }()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	w := httptest.NewRecorder()
	LoggingMiddleware(next).ServeHTTP(w, httptest.NewRequest("GET", "/orders", nil))

	logs := observed.TakeAll()
	assert.Len(t, logs, 1)
	assert.Equal(t, "request completed", logs[0].Message)
	assert.Equal(t, "/orders", logs[0].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusConflict), logs[0].ContextMap()["status"])
}
