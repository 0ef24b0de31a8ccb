package engine

import (
	"testing"

	"github.com/rushteam/gamerec/core"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		sig      signals
		want     core.State
		strategy core.Strategy
	}{
		{"nothing", signals{}, core.StateColdStart, core.StrategyPopularity},
		{"history only", signals{hasHistory: true}, core.StateColdStart, core.StrategyContent},
		{"filters only", signals{hasFilters: true}, core.StateFilterOnly, core.StrategyPopularity},
		{"filters with history", signals{hasFilters: true, hasHistory: true}, core.StateColdStart, core.StrategyContent},
		{"text", signals{hasText: true, hasFilters: true}, core.StateTextOnly, core.StrategyContent},
		{"warm wins", signals{cfReady: true, hasText: true, hasFilters: true, hasHistory: true}, core.StateWarm, core.StrategyHybrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decide(tt.sig)
			if got != tt.want {
				t.Errorf("decide(%+v) = %s, want %s", tt.sig, got, tt.want)
			}
			if s := strategyOf(got, tt.sig); s != tt.strategy {
				t.Errorf("strategyOf(%s) = %s, want %s", got, s, tt.strategy)
			}
		})
	}
}

func TestDefaultOptionsValid(t *testing.T) {
	if _, err := New(DefaultOptions(), nil, nil); err != nil {
		t.Fatalf("New(DefaultOptions()) error = %v", err)
	}
	bad := DefaultOptions()
	bad.Alpha = 1.5
	if _, err := New(bad, nil, nil); err == nil {
		t.Error("alpha > 1 should be rejected")
	}
	bad = DefaultOptions()
	bad.MaxK = 5
	if _, err := New(bad, nil, nil); err == nil {
		t.Error("max_k < default_k should be rejected")
	}
}
