package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRPC("/x", "ok", 0.1)
	m.ObserveBalance("ok", 2, 0.01)
	m.ObserveReplay("expense")
}

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveRPC("/splitmate.v1.BalanceService/GetGroupBalances", "ok", 0.002)
	m.ObserveRPC("/splitmate.v1.BalanceService/GetGroupBalances", "ok", 0.003)
	m.ObserveRPC("/splitmate.v1.BalanceService/GetGroupBalances", "not_found", 0.001)

	if got := testutil.ToFloat64(m.RPCRequests.WithLabelValues("/splitmate.v1.BalanceService/GetGroupBalances", "ok")); got != 2 {
		t.Errorf("rpc ok count = %v, want 2", got)
	}

	m.ObserveBalance("ok", 3, 0.01)
	m.ObserveBalance("invalid_input", 0, 99)
	if got := testutil.ToFloat64(m.RoundingResidual); got != 0.01 {
		t.Errorf("residual = %v, want 0.01 (invalid input must not overwrite)", got)
	}
	if got := testutil.ToFloat64(m.BalanceComputations.WithLabelValues("invalid_input")); got != 1 {
		t.Errorf("invalid_input count = %v, want 1", got)
	}

	m.ObserveReplay("settlement")
	if got := testutil.ToFloat64(m.IdempotentReplays.WithLabelValues("settlement")); got != 1 {
		t.Errorf("replays = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveReplay("expense")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"splitmate_idempotent_replays_total", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %s in exposition output", want)
		}
	}
}
