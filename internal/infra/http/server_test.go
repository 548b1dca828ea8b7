package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestHealthz(t *testing.T) {
	srv := NewServer(zerolog.Nop(), ":0")
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("неожиданное тело %s", rec.Body.String())
	}
}

func TestWriteErrorEscapes(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, errString(`bad "date"`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ожидали 400, получили %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"bad \"date\""}` {
		t.Fatalf("неожиданное тело %s", got)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := NewServer(zerolog.Nop(), "127.0.0.1:0")
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("остановка до запуска не ошибка: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("после Shutdown Start должен завершиться без ошибки: %v", err)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
