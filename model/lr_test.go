package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLRModelPredict(t *testing.T) {
	m := &LRModel{Bias: 0.5, Weights: map[string]float64{"a": 2}}
	got, err := m.Predict(map[string]float64{"a": 1, "unknown": 10})
	if err != nil {
		t.Fatal(err)
	}
	want := 1 / (1 + math.Exp(-2.5))
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Predict() = %v, want %v", got, want)
	}
}

func TestLoadLRModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lr.json")
	if err := os.WriteFile(path, []byte(`{"bias": -1, "weights": {"affinity": 3}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadLRModel(path)
	if err != nil {
		t.Fatalf("LoadLRModel() error = %v", err)
	}
	if m.Bias != -1 || m.Weights[FeatureAffinity] != 3 {
		t.Errorf("LoadLRModel() = %+v", m)
	}
}
