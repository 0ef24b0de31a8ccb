package catalog

import (
	"math"
	"slices"
	"testing"

	"github.com/rushteam/gamerec/core"
)

func testRecords() []core.GameRecord {
	return []core.GameRecord{
		{ID: 30, Title: "Portal 2", Genres: []string{"Puzzle"}, Tags: []string{"Coop", "First-Person"}, Price: "$9.99", Popularity: 90, Vector: []float64{1, 0, 0}, Platforms: []string{"win", "Mac"}, ReleaseDate: "Apr 18, 2011"},
		{ID: 10, Title: "The Witness", Genres: []string{"puzzle"}, Price: 39.99, Popularity: 40, Vector: []float64{0.9, 0.1, 0}},
		{ID: 20, Title: "DOOM Eternal", Genres: []string{"Action", "FPS"}, Price: "Free", Popularity: 90, Vector: []float64{0, 1, 0}, ReleaseYear: 2020},
		{ID: 40, Title: "DOOM Eternal - Original Soundtrack", Genres: []string{"Action"}, Popularity: 5, Vector: []float64{0, 0.9, 0.1}},
	}
}

func mustBuild(t *testing.T, records []core.GameRecord) *Catalog {
	t.Helper()
	c, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return c
}

func TestBuild(t *testing.T) {
	c := mustBuild(t, testRecords())

	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	if c.Dim() != 3 {
		t.Errorf("Dim() = %d, want 3", c.Dim())
	}
	if c.MaxPopularity() != 90 {
		t.Errorf("MaxPopularity() = %v, want 90", c.MaxPopularity())
	}

	portal, err := c.Lookup(30)
	if err != nil {
		t.Fatalf("Lookup(30) error = %v", err)
	}
	if portal.Price != 9.99 {
		t.Errorf("price = %v, want 9.99", portal.Price)
	}
	if portal.ReleaseYear != 2011 {
		t.Errorf("release year = %d, want 2011", portal.ReleaseYear)
	}
	if !slices.Equal(portal.Tags, []string{"co-op", "first person"}) {
		t.Errorf("tags = %v, want normalized [co-op first person]", portal.Tags)
	}
	if !slices.Equal(portal.Platforms, []string{core.PlatformWindows, core.PlatformMac}) {
		t.Errorf("platforms = %v", portal.Platforms)
	}

	doom, _ := c.Lookup(20)
	if !slices.Equal(doom.Genres, []string{"action", "shooter"}) {
		t.Errorf("genres = %v, want [action shooter]", doom.Genres)
	}
	if doom.Price != 0 {
		t.Errorf("free price = %v, want 0", doom.Price)
	}
	if ost, _ := c.Lookup(40); !ost.DLC {
		t.Error("soundtrack should be flagged as DLC")
	}
}

func TestBuildIntegrityErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []core.GameRecord
	}{
		{
			name: "duplicate id",
			records: []core.GameRecord{
				{ID: 1, Title: "A", Vector: []float64{1}},
				{ID: 1, Title: "B", Vector: []float64{1}},
			},
		},
		{
			name: "dimension mismatch",
			records: []core.GameRecord{
				{ID: 1, Title: "A", Vector: []float64{1, 0}},
				{ID: 2, Title: "B", Vector: []float64{1}},
			},
		},
		{name: "missing vector", records: []core.GameRecord{{ID: 1, Title: "A"}}},
		{name: "missing title", records: []core.GameRecord{{ID: 1, Vector: []float64{1}}}},
		{name: "nan vector", records: []core.GameRecord{{ID: 1, Title: "A", Vector: []float64{math.NaN()}}}},
		{name: "negative popularity", records: []core.GameRecord{{ID: 1, Title: "A", Vector: []float64{1}, Popularity: -1}}},
		{name: "bad price", records: []core.GameRecord{{ID: 1, Title: "A", Vector: []float64{1}, Price: "call us"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.records)
			if !core.IsDataIntegrity(err) {
				t.Errorf("Build() error = %v, want DATA_INTEGRITY", err)
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	c := mustBuild(t, nil)
	if c.Len() != 0 || c.Dim() != 0 {
		t.Errorf("empty catalog Len=%d Dim=%d", c.Len(), c.Dim())
	}
	for range c.All() {
		t.Fatal("empty catalog should yield nothing")
	}
}

func TestBuildCopiesVectors(t *testing.T) {
	records := testRecords()
	c := mustBuild(t, records)
	records[0].Vector[0] = 42
	if g, _ := c.Lookup(30); g.Vector[0] != 1 {
		t.Error("catalog must not alias caller-owned vectors")
	}
}

func TestLookupNotFound(t *testing.T) {
	c := mustBuild(t, testRecords())
	if _, err := c.Lookup(999); !core.IsNotFound(err) {
		t.Errorf("Lookup(999) error = %v, want NOT_FOUND", err)
	}
}

func collectIDs(seq func(func(*core.Game) bool)) []int64 {
	var ids []int64
	for g := range seq {
		ids = append(ids, g.ID)
	}
	return ids
}

func TestIterators(t *testing.T) {
	c := mustBuild(t, testRecords())

	all := collectIDs(c.All())
	if !slices.Equal(all, []int64{10, 20, 30, 40}) {
		t.Errorf("All() = %v, want ascending ids", all)
	}
	if again := collectIDs(c.All()); !slices.Equal(again, all) {
		t.Errorf("All() not restartable: %v", again)
	}

	puzzles := collectIDs(c.Filter(func(g *core.Game) bool { return g.HasGenre("puzzle") }))
	if !slices.Equal(puzzles, []int64{10, 30}) {
		t.Errorf("Filter(puzzle) = %v, want [10 30]", puzzles)
	}

	// 热度相同（20 与 30 都是 90）时按 ID 升序
	pop := collectIDs(c.ByPopularity())
	if !slices.Equal(pop, []int64{20, 30, 10, 40}) {
		t.Errorf("ByPopularity() = %v, want [20 30 10 40]", pop)
	}

	// 提前终止
	n := 0
	for range c.All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("early break visited %d", n)
	}
}

func TestVersionMonotonic(t *testing.T) {
	a := mustBuild(t, testRecords())
	b := mustBuild(t, testRecords())
	if b.Version() <= a.Version() {
		t.Errorf("versions not increasing: %d then %d", a.Version(), b.Version())
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	c := mustBuild(t, testRecords())
	again := mustBuild(t, c.Records())
	if again.Len() != c.Len() {
		t.Fatalf("Len = %d, want %d", again.Len(), c.Len())
	}
	g, _ := again.Lookup(30)
	if g.Price != 9.99 || g.ReleaseYear != 2011 || !slices.Equal(g.Tags, []string{"co-op", "first person"}) {
		t.Errorf("rebuilt game differs: %+v", g)
	}
}
