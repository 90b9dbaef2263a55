package health

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func() error

func (f checkerFunc) Available() error { return f() }

func TestHandler(t *testing.T) {
	tests := []struct {
		name    string
		checker SpeechChecker
		want    string
	}{
		{name: "available", checker: checkerFunc(func() error { return nil }), want: `{"status":"ok","speech":"available"}`},
		{name: "unavailable", checker: checkerFunc(func() error { return errors.New("espeak-ng not found") }), want: `{"status":"ok","speech":"unavailable"}`},
		{name: "no checker", checker: nil, want: `{"status":"ok","speech":"unavailable"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler(tt.checker).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestServerHandle(t *testing.T) {
	s := New(0, nil)
	s.Handle("GET /metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","speech":"unavailable"}`, rec.Body.String())
}
