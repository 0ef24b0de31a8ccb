package recall

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/model"
	"github.com/rushteam/gamerec/vector"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build([]core.GameRecord{
		{ID: 1, Title: "Portal 2", Genres: []string{"Puzzle"}, Tags: []string{"Co-op"}, Vector: []float64{0.1, 1, 0}, Popularity: 90},
		{ID: 2, Title: "The Witness", Genres: []string{"Puzzle"}, Vector: []float64{0, 1, 0.1}, Popularity: 60},
		{ID: 3, Title: "DOOM", Genres: []string{"Action", "FPS"}, Vector: []float64{1, 0, 0}, Popularity: 95},
		{ID: 4, Title: "Hades", Genres: []string{"Action"}, Tags: []string{"Roguelite"}, Vector: []float64{1, 0.1, 0.1}, Popularity: 80},
		{ID: 5, Title: "Civilization VI", Genres: []string{"Strategy"}, Vector: []float64{0, 0.1, 1}, Popularity: 85},
		{ID: 6, Title: "Baba Is You", Genres: []string{"Puzzle"}, Vector: []float64{0, 0.9, 0.2}, Popularity: 40},
	})
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func newRctx(k int) *core.RecommendContext {
	return &core.RecommendContext{
		K:       k,
		Profile: core.NewUserProfile(""),
		Exclude: map[int64]struct{}{},
		Params:  map[string]any{},
	}
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestTextEncoder(t *testing.T) {
	enc := NewTextEncoder(testCatalog(t))

	tests := []struct {
		name      string
		text      string
		terms     []string
		titles    []int64
		hasVector bool
	}{
		{name: "term", text: "I want a puzzle", terms: []string{"puzzle"}, hasVector: true},
		{name: "synonym", text: "cooperative FPS", terms: []string{"co-op", "shooter"}, hasVector: true},
		{name: "hyphen phrase", text: "co-op puzzles", terms: []string{"co-op", "puzzle"}, hasVector: true},
		{name: "title", text: "games like Portal 2", titles: []int64{1}, hasVector: true},
		{name: "title with punctuation", text: "more like baba is you!", titles: []int64{6}, hasVector: true},
		{name: "whole words only", text: "hadesque puzzlers", hasVector: false},
		{name: "nothing", text: "zzz", hasVector: false},
		{name: "empty", text: "", hasVector: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := enc.Encode(tt.text)
			if !slices.Equal(q.Terms, tt.terms) {
				t.Errorf("Terms = %v, want %v", q.Terms, tt.terms)
			}
			if !slices.Equal(q.Titles, tt.titles) {
				t.Errorf("Titles = %v, want %v", q.Titles, tt.titles)
			}
			if (q.Vector != nil) != tt.hasVector {
				t.Errorf("Vector = %v, want present=%v", q.Vector, tt.hasVector)
			}
		})
	}
}

func TestTextEncoderVector(t *testing.T) {
	enc := NewTextEncoder(testCatalog(t))
	q := enc.Encode("action")
	if len(q.Vector) != 3 {
		t.Fatalf("Vector = %v", q.Vector)
	}
	if q.Vector[0] < q.Vector[1] || q.Vector[0] < q.Vector[2] {
		t.Errorf("action vector %v should point along the action axis", q.Vector)
	}
	if !slices.Contains(enc.Terms(), "roguelike") {
		t.Errorf("Terms() = %v, want normalized roguelike", enc.Terms())
	}
}

func TestContentRecall(t *testing.T) {
	cat := testCatalog(t)
	src := &Content{Catalog: cat, Index: vector.Build(cat), Text: NewTextEncoder(cat)}

	t.Run("no query vector", func(t *testing.T) {
		items, err := src.Recall(context.Background(), newRctx(3))
		if err != nil || len(items) != 0 {
			t.Fatalf("Recall() = %v, %v; want empty", ids(items), err)
		}
	})

	t.Run("preference", func(t *testing.T) {
		rctx := newRctx(2)
		rctx.Preference = []float64{1, 0, 0}
		rctx.Exclude[3] = struct{}{}
		items, err := src.Recall(context.Background(), rctx)
		if err != nil {
			t.Fatal(err)
		}
		if items[0].ID != 4 {
			t.Errorf("first = %d, want 4", items[0].ID)
		}
		if items[0].Score != 1 {
			t.Errorf("best score = %v, want 1", items[0].Score)
		}
		for i := 1; i < len(items); i++ {
			if items[i].Score > items[i-1].Score {
				t.Errorf("scores not descending: %v", ids(items))
			}
		}
		if slices.Contains(ids(items), 3) {
			t.Error("excluded game recalled")
		}
	})

	t.Run("text with filter", func(t *testing.T) {
		rctx := newRctx(3)
		rctx.Request = &core.Request{Query: "co-op puzzle"}
		rctx.Allow = func(g *core.Game) bool { return g.ID != 1 }
		items, err := src.Recall(context.Background(), rctx)
		if err != nil {
			t.Fatal(err)
		}
		if got := items[0].ID; got != 2 && got != 6 {
			t.Errorf("first = %d, want a puzzle game", got)
		}
		if slices.Contains(ids(items), 1) {
			t.Error("filtered game recalled")
		}
	})

	t.Run("blend preference and text", func(t *testing.T) {
		rctx := newRctx(3)
		rctx.Preference = []float64{1, 0, 0}
		rctx.Params[ParamTextQuery] = src.Text.Encode("strategy")
		q := src.QueryVector(rctx)
		if q[0] <= 0 || q[2] <= 0 {
			t.Errorf("QueryVector = %v, want both action and strategy components", q)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rctx := newRctx(3)
		rctx.Preference = []float64{1, 0, 0}
		if _, err := src.Recall(ctx, rctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Recall() error = %v, want context.Canceled", err)
		}
	})
}

func TestPopularityRecall(t *testing.T) {
	cat := testCatalog(t)
	rctx := newRctx(3)
	rctx.Allow = func(g *core.Game) bool { return !g.HasGenre("strategy") }

	items, err := (&Popularity{Catalog: cat}).Recall(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int64{3, 1, 4}; !slices.Equal(ids(items), want) {
		t.Errorf("ids = %v, want %v", ids(items), want)
	}
	if items[0].Score != 1 || items[1].Features[core.FeaturePopularity] != 90.0/95.0 {
		t.Errorf("scores = %v, %v", items[0].Score, items[1].Features)
	}

	rctx.Params[ParamPoolSize] = 5
	items, _ = (&Popularity{Catalog: cat}).Recall(context.Background(), rctx)
	if len(items) != 5 {
		t.Errorf("pool_size 5: got %d items", len(items))
	}
}

func TestCollaborativeRecall(t *testing.T) {
	cat := testCatalog(t)
	cf := model.FromCatalog(cat)
	src := &Collaborative{Catalog: cat, Model: cf}

	rctx := newRctx(2)
	if _, err := src.Recall(context.Background(), rctx); !errors.Is(err, core.ErrInsufficientHistory) {
		t.Fatalf("cold user error = %v, want ErrInsufficientHistory", err)
	}

	for _, id := range []int64{3, 4, 3} {
		rctx.Profile.Events = append(rctx.Profile.Events, core.Event{GameID: id, Signal: core.SignalLiked})
	}
	rctx.Exclude[3] = struct{}{}
	rctx.Exclude[4] = struct{}{}
	rctx.Params[ParamPoolSize] = 2
	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %v, want 2 (pool_size)", ids(items))
	}
	for _, it := range items {
		if _, ok := it.Features[core.FeatureCollaborative]; !ok {
			t.Errorf("item %d missing collaborative feature", it.ID)
		}
		if it.ID == 3 || it.ID == 4 {
			t.Errorf("excluded game %d recalled", it.ID)
		}
	}
}

type stubSource struct {
	name  string
	items []*core.Item
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.items, s.err
}

func item(cat *catalog.Catalog, id int64, feature string, score float64) *core.Item {
	g, _ := cat.Lookup(id)
	it := core.NewItem(g)
	it.Score = score
	it.Features[feature] = score
	return it
}

func TestFanout(t *testing.T) {
	cat := testCatalog(t)

	t.Run("merge in source order", func(t *testing.T) {
		n := &Fanout{Sources: []Source{
			&stubSource{name: "a", delay: 20 * time.Millisecond, items: []*core.Item{item(cat, 1, "a", 0.9), item(cat, 2, "a", 0.5)}},
			&stubSource{name: "b", items: []*core.Item{item(cat, 2, "b", 0.7), item(cat, 3, "b", 0.1)}},
		}}
		rctx := newRctx(3)
		items, err := n.Process(context.Background(), rctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if want := []int64{1, 2, 3}; !slices.Equal(ids(items), want) {
			t.Fatalf("ids = %v, want %v", ids(items), want)
		}
		if f := items[1].Features; f["a"] != 0.5 || f["b"] != 0.7 {
			t.Errorf("merged features = %v", f)
		}
		if got := items[1].Labels[core.LabelRecallSource].Values(); !slices.Equal(got, []string{"a", "b"}) {
			t.Errorf("recall sources = %v", got)
		}
	})

	t.Run("skip failed source", func(t *testing.T) {
		n := &Fanout{Sources: []Source{
			&stubSource{name: "broken", err: errors.New("boom")},
			&stubSource{name: "ok", items: []*core.Item{item(cat, 1, "ok", 1)}},
		}}
		rctx := newRctx(3)
		items, err := n.Process(context.Background(), rctx, nil)
		if err != nil || len(items) != 1 {
			t.Fatalf("Process() = %v, %v", ids(items), err)
		}
		if _, ok := rctx.GetLabel("recall_errors"); !ok {
			t.Error("recall_errors label not recorded")
		}
	})

	t.Run("fail fast", func(t *testing.T) {
		n := &Fanout{FailFast: true, Sources: []Source{
			&stubSource{name: "broken", err: core.ErrInsufficientHistory},
			&stubSource{name: "slow", delay: time.Second},
		}}
		_, err := n.Process(context.Background(), newRctx(3), nil)
		if !errors.Is(err, core.ErrInsufficientHistory) {
			t.Errorf("Process() error = %v, want ErrInsufficientHistory", err)
		}
	})

	t.Run("per source timeout", func(t *testing.T) {
		n := &Fanout{Timeout: 10 * time.Millisecond, MaxConcurrent: 1, Sources: []Source{
			&stubSource{name: "slow", delay: time.Second},
			&stubSource{name: "fast", items: []*core.Item{item(cat, 5, "fast", 1)}},
		}}
		items, err := n.Process(context.Background(), newRctx(3), nil)
		if err != nil || !slices.Equal(ids(items), []int64{5}) {
			t.Errorf("Process() = %v, %v", ids(items), err)
		}
	})
}
