package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/minesboomer/internal/testutil"
)

func TestLoggingCapturesStatusAndSize(t *testing.T) {
	var captured *ResponseWriter
	handler := Logging(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		captured = w.(*ResponseWriter)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	require.NotNil(t, captured)
	assert.Equal(t, http.StatusTeapot, captured.Status())
	assert.Equal(t, 15, captured.Size())
}

type hijackRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestLoggingPassesHijackThrough(t *testing.T) {
	var captured *ResponseWriter
	handler := Logging(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		captured = w.(*ResponseWriter)
		_, _, err := http.NewResponseController(w).Hijack()
		assert.NoError(t, err)
	}))

	rec := &hijackRecorder{ResponseRecorder: httptest.NewRecorder()}
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.True(t, rec.hijacked)
	assert.True(t, captured.Hijacked())
	assert.Equal(t, http.StatusSwitchingProtocols, captured.Status())
}

func TestLoggingHijackUnsupported(t *testing.T) {
	rw := &ResponseWriter{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rw.Hijack()
	assert.Error(t, err)
	assert.False(t, rw.Hijacked())
}

func TestRecoveryCallsPanicHandler(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	handler := Recovery(logger, DefaultPanicHandler)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rec, ok := logs.Find("panic recovered")
	require.True(t, ok)
	assert.Equal(t, "boom", rec["error"])
	assert.Equal(t, "/api/v1/stats", rec["path"])
	assert.Equal(t, false, rec["hijacked"])
}

func TestRecoveryAfterHijackOnlyLogs(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	called := false
	onPanic := func(http.ResponseWriter, *http.Request, any) { called = true }

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _, _ = http.NewResponseController(w).Hijack()
		panic("after upgrade")
	})
	handler := Logging(testutil.NopLogger())(Recovery(logger, onPanic)(inner))

	rec := &hijackRecorder{ResponseRecorder: httptest.NewRecorder()}
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	})
	assert.False(t, called)

	entry, ok := logs.Find("panic recovered")
	require.True(t, ok)
	assert.Equal(t, true, entry["hijacked"])
}
