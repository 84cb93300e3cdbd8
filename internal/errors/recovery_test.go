package errors

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/descentlabs/descent/internal/logging"
)

func TestRecoveryMiddlewareRecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.ErrorLevel, &buf)

	h := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/explode", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, buf.String(), "Recovered from panic")
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "/explode")
}

func TestRecoveryMiddlewarePassesThrough(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.ErrorLevel, &buf)

	h := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/ok", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Zero(t, buf.Len())
}
