package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/pkg/logging"
)

const testCatalog = `{"id": 1, "title": "Portal 2", "genres": ["Puzzle"], "tags": ["Co-op"], "price": "$9.99", "popularity": 90, "vector": [0.1, 1, 0]}
{"id": 2, "title": "The Witness", "genres": ["Puzzle"], "price": 39.99, "popularity": 60, "vector": [0, 1, 0.1]}
{"id": 3, "title": "DOOM", "genres": ["Action"], "price": 19.99, "popularity": 95, "vector": [1, 0, 0]}
{"id": 4, "title": "DOOM Soundtrack", "genres": ["Action"], "popularity": 99, "vector": [1, 0, 0]}
`

// setup 写入目录与配置文件，返回配置路径。
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "games.jsonl")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := "log:\n  level: disabled\nstore:\n  backend: badger\n  dir: " + filepath.Join(dir, "data") +
		"\ncatalog:\n  path: " + catalogPath + "\n"
	cfgPath := filepath.Join(dir, "gamerec.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	defer logging.SetLogger(zerolog.Nop())
	var out bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "recommend", "--config", cfg, "-k", "2", "--json")
	if err != nil {
		t.Fatalf("recommend: %v\n%s", err, out)
	}
	var res resultView
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.State != "COLD_START" || len(res.Entries) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Entries[0].ID != 3 || res.Entries[1].ID != 1 {
		t.Errorf("entries = %+v, want DOOM then Portal 2 (soundtrack excluded)", res.Entries)
	}
}

func TestRecordThenRecommend(t *testing.T) {
	cfg := setup(t)
	for _, args := range [][]string{
		{"record", "--config", cfg, "--user", "u1", "--title", "portal 2", "--signal", "liked"},
		{"record", "--config", cfg, "--user", "u1", "--game", "2", "--signal", "rated", "--rating", "5"},
	} {
		if out, err := run(t, args...); err != nil {
			t.Fatalf("%v: %v\n%s", args, err, out)
		}
	}

	// 事件保存在 badger 中，新进程（新引擎）可以读到
	out, err := run(t, "recommend", "--config", cfg, "--user", "u1", "--json")
	if err != nil {
		t.Fatalf("recommend: %v\n%s", err, out)
	}
	var res resultView
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	for _, e := range res.Entries {
		if e.ID == 1 {
			t.Errorf("liked game recommended: %+v", res.Entries)
		}
	}
	if res.Entries[0].Explanation != "content" {
		t.Errorf("first explanation = %s, want content", res.Entries[0].Explanation)
	}
}

func TestRecordErrors(t *testing.T) {
	cfg := setup(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing user", []string{"--game", "1"}},
		{"game and title", []string{"--user", "u", "--game", "1", "--title", "doom"}},
		{"unknown game", []string{"--user", "u", "--game", "404"}},
		{"unknown title", []string{"--user", "u", "--title", "half life 3"}},
		{"bad signal", []string{"--user", "u", "--game", "1", "--signal", "shared"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"record", "--config", cfg}, tt.args...)
			if _, err := run(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCatalogValidate(t *testing.T) {
	cfg := setup(t)
	catalogPath := filepath.Join(filepath.Dir(cfg), "games.jsonl")
	out, err := run(t, "catalog", "validate", catalogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "4 games (1 dlc)") {
		t.Errorf("output = %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(bad, []byte(testCatalog+`{"id": 1, "title": "Dup", "vector": [1, 1, 1]}`+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "catalog", "validate", bad); err == nil {
		t.Error("duplicate id should fail validation")
	}
}
