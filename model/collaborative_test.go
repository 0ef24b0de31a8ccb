package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/gamerec/core"
)

// 1-3 为动作游戏，4-6 为解谜游戏
var testEmbeddings = map[int64][]float64{
	1: {1, 0.1, 0},
	2: {0.9, 0.2, 0},
	3: {1, 0, 0.1},
	4: {0, 1, 0.1},
	5: {0.1, 0.9, 0},
	6: {0, 1, 0},
}

func profileOf(events ...core.Event) *core.UserProfile {
	return &core.UserProfile{UserID: "u", Events: events}
}

func liked(id int64) core.Event { return core.Event{GameID: id, Signal: core.SignalLiked} }

func TestCollaborativeInsufficientHistory(t *testing.T) {
	m, err := NewCollaborative(testEmbeddings, nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		profile *core.UserProfile
	}{
		{"empty", profileOf()},
		{"below threshold", profileOf(liked(1), liked(2))},
		{"no embeddings", profileOf(liked(100), liked(101), liked(102))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Score(context.Background(), tt.profile, []int64{1, 2})
			if !errors.Is(err, core.ErrInsufficientHistory) {
				t.Errorf("Score() error = %v, want ErrInsufficientHistory", err)
			}
		})
	}
}

func TestCollaborativeActionOverPuzzle(t *testing.T) {
	m, err := NewCollaborative(testEmbeddings, nil)
	if err != nil {
		t.Fatal(err)
	}
	scores, err := m.Score(context.Background(), profileOf(liked(1), liked(2), liked(3)), []int64{4, 5, 6, 1, 2, 3, 404})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if _, ok := scores[404]; ok {
		t.Error("game without embedding must be omitted")
	}
	for _, action := range []int64{1, 2, 3} {
		for _, puzzle := range []int64{4, 5, 6} {
			if scores[action] <= scores[puzzle] {
				t.Errorf("score[%d]=%v should exceed score[%d]=%v", action, scores[action], puzzle, scores[puzzle])
			}
		}
	}
	for id, s := range scores {
		if s <= 0 || s >= 1 {
			t.Errorf("score[%d] = %v, want in (0,1)", id, s)
		}
	}
}

func TestCollaborativeDislikePushesAway(t *testing.T) {
	m, _ := NewCollaborative(testEmbeddings, nil)
	p := profileOf(liked(1), liked(2), core.Event{GameID: 6, Signal: core.SignalDisliked})
	scores, err := m.Score(context.Background(), p, []int64{3, 5})
	if err != nil {
		t.Fatal(err)
	}
	if scores[5] >= 0.5 {
		t.Errorf("disliked-similar game score = %v, want < 0.5", scores[5])
	}
}

func TestCollaborativeCanceled(t *testing.T) {
	m, _ := NewCollaborative(testEmbeddings, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Score(ctx, profileOf(liked(1), liked(2), liked(3)), []int64{1}); !errors.Is(err, context.Canceled) {
		t.Errorf("Score() error = %v, want context.Canceled", err)
	}
}

func TestNewCollaborativeDimensionMismatch(t *testing.T) {
	_, err := NewCollaborative(map[int64][]float64{1: {1, 0}, 2: {1, 0, 0}}, nil)
	if !core.IsDataIntegrity(err) {
		t.Errorf("NewCollaborative() error = %v, want DATA_INTEGRITY", err)
	}
}

func TestLoadCollaborative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cf.json")
	body := `{"calibrator": {"bias": 0, "weights": {"affinity": 6}}, "min_events": 2, "embeddings": {"1": [1, 0], "2": [0, 1]}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadCollaborative(path)
	if err != nil {
		t.Fatalf("LoadCollaborative() error = %v", err)
	}
	if m.MinEvents != 2 || len(m.Embeddings) != 2 || m.Embedding(2)[1] != 1 {
		t.Errorf("LoadCollaborative() = %+v", m)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte(`{"embeddings": {"x": [1]}}`), 0o644)
	if _, err := LoadCollaborative(bad); !core.IsDataIntegrity(err) {
		t.Errorf("LoadCollaborative(bad key) error = %v, want DATA_INTEGRITY", err)
	}
}
