package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRecommend(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("WARM", "primary"))
	ObserveRecommend("WARM", "primary", 3*time.Millisecond)
	after := testutil.ToFloat64(RecommendRequests.WithLabelValues("WARM", "primary"))
	if after-before != 1 {
		t.Errorf("requests delta = %v, want 1", after-before)
	}
}

func TestObserveReload(t *testing.T) {
	okBefore := testutil.ToFloat64(CatalogReloads.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(CatalogReloads.WithLabelValues("error"))

	ObserveReload(12, nil)
	ObserveReload(0, errors.New("boom"))

	if got := testutil.ToFloat64(CatalogGames); got != 12 {
		t.Errorf("CatalogGames = %v, want 12", got)
	}
	if d := testutil.ToFloat64(CatalogReloads.WithLabelValues("ok")) - okBefore; d != 1 {
		t.Errorf("ok reloads delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(CatalogReloads.WithLabelValues("error")) - errBefore; d != 1 {
		t.Errorf("error reloads delta = %v, want 1", d)
	}
}
