package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDeliveryCountsStatus(t *testing.T) {
	before := testutil.ToFloat64(DeliveriesTotal.WithLabelValues("slack", "error"))
	ObserveDelivery("slack", errors.New("channel_not_found"))
	ObserveDelivery("slack", nil)
	if got := testutil.ToFloat64(DeliveriesTotal.WithLabelValues("slack", "error")); got != before+1 {
		t.Fatalf("ожидали %v ошибок, получили %v", before+1, got)
	}
}

func TestObserveReminderFile(t *testing.T) {
	ObserveReminderFile("macro", "created")
	if got := testutil.ToFloat64(RemindersWritten.WithLabelValues("macro", "created")); got < 1 {
		t.Fatalf("счётчик не увеличился: %v", got)
	}
}

func TestPushSkipsEmptyURL(t *testing.T) {
	if err := Push(context.Background(), "", "job", prometheus.NewRegistry()); err != nil {
		t.Fatalf("пустой url не ошибка: %v", err)
	}
}

func TestPushSendsToGateway(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	MustRegister(reg)
	ObserveDraft(nil)
	if err := Push(context.Background(), srv.URL, "bulletin_daily", reg); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !strings.HasSuffix(path, "/metrics/job/bulletin_daily") {
		t.Fatalf("неожиданный путь %s", path)
	}
}
