package filter

import (
	"context"
	"testing"

	"github.com/rushteam/gamerec/core"
)

func ptr(v float64) *float64 { return &v }

var (
	portal = &core.Game{ID: 1, Title: "Portal 2", Genres: []string{"puzzle"}, Tags: []string{"co-op"},
		Price: 9.99, Platforms: []string{"windows", "mac", "linux"}, ReleaseYear: 2011, PositiveRatio: 98, UserReviews: 300000, AvgPlaytime: 720}
	doom = &core.Game{ID: 2, Title: "DOOM", Genres: []string{"action", "shooter"}, Tags: []string{"gore"},
		Price: 19.99, Platforms: []string{"windows"}, ReleaseYear: 2016, PositiveRatio: 93, UserReviews: 150000, AvgPlaytime: 900}
	soundtrack = &core.Game{ID: 3, Title: "DOOM Soundtrack", Genres: []string{"action"},
		Price: 4.99, Platforms: []string{"windows"}, ReleaseYear: 2016, DLC: true}
	unknownYear = &core.Game{ID: 4, Title: "Mystery", Genres: []string{"puzzle"}, Platforms: []string{"windows"}}
)

func allowed(t *testing.T, f core.Filters, games ...*core.Game) []int64 {
	t.Helper()
	chain, err := FromRequest(f)
	if err != nil {
		t.Fatalf("FromRequest() error = %v", err)
	}
	var out []int64
	for _, g := range games {
		if chain.Allow(g) {
			out = append(out, g.ID)
		}
	}
	return out
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFromRequest(t *testing.T) {
	games := []*core.Game{portal, doom, soundtrack, unknownYear}
	tests := []struct {
		name string
		f    core.Filters
		want []int64
	}{
		{name: "no filters drops dlc", f: core.Filters{}, want: []int64{1, 2, 4}},
		{name: "include dlc", f: core.Filters{IncludeDLC: true}, want: []int64{1, 2, 3, 4}},
		{name: "genre any match", f: core.Filters{Genres: []string{"Puzzle", "FPS"}}, want: []int64{1, 2, 4}},
		{name: "genre matches tag", f: core.Filters{Genres: []string{"coop"}}, want: []int64{1}},
		{name: "tag", f: core.Filters{Tags: []string{"gore"}}, want: []int64{2}},
		{name: "exclude genre", f: core.Filters{ExcludeGenres: []string{"action"}}, want: []int64{1, 4}},
		{name: "exclude tag", f: core.Filters{ExcludeTags: []string{"co-op"}}, want: []int64{2, 4}},
		{name: "max price", f: core.Filters{MaxPrice: ptr(10)}, want: []int64{1, 4}},
		{name: "price range", f: core.Filters{MinPrice: ptr(10), MaxPrice: ptr(20)}, want: []int64{2}},
		{name: "platform", f: core.Filters{Platforms: []string{"linux"}}, want: []int64{1}},
		{name: "platform alias", f: core.Filters{Platforms: []string{"macOS"}}, want: []int64{1}},
		{name: "year after", f: core.Filters{ReleaseYear: 2011, YearComparator: core.YearAfter}, want: []int64{2}},
		{name: "year before", f: core.Filters{ReleaseYear: 2016, YearComparator: core.YearBefore}, want: []int64{1}},
		{name: "year exact default", f: core.Filters{ReleaseYear: 2016}, want: []int64{2}},
		{name: "year range", f: core.Filters{StartYear: 2010, EndYear: 2012}, want: []int64{1}},
		{name: "year range inclusive", f: core.Filters{StartYear: 2011, EndYear: 2016}, want: []int64{1, 2}},
		{name: "start year only", f: core.Filters{StartYear: 2016}, want: []int64{2}},
		{name: "end year only", f: core.Filters{EndYear: 2011}, want: []int64{1}},
		{name: "min playtime", f: core.Filters{MinPlaytime: 800}, want: []int64{2}},
		{name: "rating", f: core.Filters{MinPositiveRatio: 95}, want: []int64{1}},
		{name: "reviews", f: core.Filters{MinUserReviews: 200000}, want: []int64{1}},
		{name: "expr", f: core.Filters{Expr: `game.price > 15.0`}, want: []int64{2}},
		{name: "combined", f: core.Filters{Genres: []string{"puzzle"}, MaxPrice: ptr(5)}, want: []int64{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allowed(t, tt.f, games...); !sameIDs(got, tt.want) {
				t.Errorf("allowed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTermFiltersAgreeOnField(t *testing.T) {
	// horror 只出现在标签里
	outlast := &core.Game{ID: 5, Title: "Outlast", Genres: []string{"action"}, Tags: []string{"horror"}}
	games := []*core.Game{outlast, portal}
	tests := []struct {
		name string
		f    core.Filters
		want []int64
	}{
		{name: "include genre", f: core.Filters{Genres: []string{"horror"}}, want: []int64{5}},
		{name: "exclude genre", f: core.Filters{ExcludeGenres: []string{"horror"}}, want: []int64{1}},
		{name: "include and exclude", f: core.Filters{Genres: []string{"horror"}, ExcludeGenres: []string{"horror"}}, want: nil},
		{name: "exclude tag matches genre", f: core.Filters{ExcludeTags: []string{"puzzle"}}, want: []int64{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allowed(t, tt.f, games...); !sameIDs(got, tt.want) {
				t.Errorf("allowed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromRequestInvalid(t *testing.T) {
	tests := []struct {
		name string
		f    core.Filters
	}{
		{"bad expr", core.Filters{Expr: "game.price <"}},
		{"min above max", core.Filters{MinPrice: ptr(30), MaxPrice: ptr(10)}},
		{"comparator without year", core.Filters{YearComparator: core.YearAfter}},
		{"unknown platform", core.Filters{Platforms: []string{"dreamcast"}}},
		{"start after end", core.Filters{StartYear: 2020, EndYear: 2010}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromRequest(tt.f); !core.IsInvalidRequest(err) {
				t.Errorf("FromRequest() error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestBlacklistFilter(t *testing.T) {
	f := NewBlacklistFilter([]int64{2})
	if !f.ShouldFilter(doom) || f.ShouldFilter(portal) {
		t.Error("blacklist should filter exactly game 2")
	}
}

func TestFilterNode(t *testing.T) {
	node := &FilterNode{Filters: Chain{DLCFilter{}}}
	rctx := &core.RecommendContext{Exclude: map[int64]struct{}{1: {}}}
	items := []*core.Item{core.NewItem(portal), core.NewItem(doom), core.NewItem(soundtrack)}

	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("Process() kept %d items", len(out))
	}
	if lbl := items[2].Labels[core.LabelFiltered]; lbl.Source != "filter.dlc" {
		t.Errorf("filtered label source = %q, want filter.dlc", lbl.Source)
	}
	if lbl := items[0].Labels[core.LabelFiltered]; lbl.Source != "exclude" {
		t.Errorf("filtered label source = %q, want exclude", lbl.Source)
	}
}
