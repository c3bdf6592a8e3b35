package config_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tagcalc/internal/complete"
	"tagcalc/internal/config"
	"tagcalc/internal/trace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const fullConfig = `
[autocomplete]
url = "http://localhost:8080/api/autocomplete"
limit = 5
timeout = "250ms"
stale = "2m"
cache_dir = "cache"
builtin = false

[catalog]
path = "data/tags.db"

[[tag]]
name = "Headcount"
value = 42

[[tag]]
id = "fx"
name = "FX Rate"
value = 1.08
kind = "variable"
description = "EUR/USD"

[trace]
level = "detail"
mode = "stream"
output = "trace.ndjson"
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	writeFile(t, path, fullConfig)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ac := cfg.Autocomplete
	if ac.Limit != 5 || ac.Timeout.Duration != 250*time.Millisecond || ac.Stale.Duration != 2*time.Minute || ac.Builtin {
		t.Fatalf("autocomplete = %+v", ac)
	}
	if ac.CacheDir != filepath.Join(dir, "cache") {
		t.Fatalf("cache_dir not resolved: %q", ac.CacheDir)
	}
	if cfg.Catalog.Path != filepath.Join(dir, "data", "tags.db") {
		t.Fatalf("catalog path not resolved: %q", cfg.Catalog.Path)
	}
	if len(cfg.Tags) != 2 || cfg.Tags[0].Value == nil || *cfg.Tags[0].Value != 42 {
		t.Fatalf("tags = %+v", cfg.Tags)
	}
	if cfg.Tags[1].ID != "fx" || *cfg.Tags[1].Value != 1.08 || cfg.Tags[1].Description != "EUR/USD" {
		t.Fatalf("second tag = %+v", cfg.Tags[1])
	}

	tc, err := cfg.TraceConfig()
	if err != nil {
		t.Fatalf("TraceConfig: %v", err)
	}
	if tc.Level != trace.LevelDetail || tc.Mode != trace.ModeStream || tc.OutputPath != filepath.Join(dir, "trace.ndjson") {
		t.Fatalf("trace config = %+v", tc)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	writeFile(t, path, "")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Default()
	if cfg.Autocomplete != want.Autocomplete || cfg.Trace != want.Trace {
		t.Fatalf("empty file must keep defaults: %+v", cfg)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[autocomplete", "failed to parse TOML"},
		{"unknown key", "[autocomplete]\nuri = \"x\"", "unknown keys: autocomplete.uri"},
		{"relative url", "[autocomplete]\nurl = \"/api\"", "absolute URL"},
		{"limit", "[autocomplete]\nlimit = 0", "limit must be positive"},
		{"timeout", "[autocomplete]\ntimeout = \"soon\"", "failed to parse TOML"},
		{"negative stale", "[autocomplete]\nstale = \"-1s\"", "stale must be positive"},
		{"tag name", "[[tag]]\nvalue = 1", "missing name"},
		{"duplicate tag", "[[tag]]\nname = \"a\"\n[[tag]]\nname = \"a\"", "duplicate name"},
		{"tag kind", "[[tag]]\nname = \"a\"\nkind = \"macro\"", "unknown kind"},
		{"trace level", "[trace]\nlevel = \"loud\"", "[trace].level"},
		{"trace mode", "[trace]\nmode = \"tape\"", "[trace].mode"},
		{"bad constraint", "required_version = \"soon\"", "required_version:"},
		{"too old", "required_version = \">= 99.0\"", "does not satisfy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), config.FileName)
			writeFile(t, path, tt.content)
			_, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestRequiredVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	writeFile(t, path, "required_version = \">= 0.1, < 99.0\"\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RequiredVersion != ">= 0.1, < 99.0" {
		t.Fatalf("RequiredVersion = %q", cfg.RequiredVersion)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, ok, err := config.Find(nested); err != nil || ok {
		// a tagcalc.toml above the temp dir would break this test
		t.Skipf("unexpected config above %s", root)
	}
	cfg, err := config.Discover(nested)
	if err != nil || cfg.Path != "" || !cfg.Autocomplete.Builtin {
		t.Fatalf("Discover without a file must return defaults: %+v %v", cfg, err)
	}

	path := filepath.Join(root, config.FileName)
	writeFile(t, path, "[[tag]]\nname = \"Headcount\"\n")
	got, ok, err := config.Find(nested)
	if err != nil || !ok || got != path {
		t.Fatalf("Find = %q, %v, %v", got, ok, err)
	}
	cfg, err = config.Discover(nested)
	if err != nil || len(cfg.Tags) != 1 {
		t.Fatalf("Discover = %+v, %v", cfg, err)
	}
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	writeFile(t, path, `
[catalog]
path = "tags.db"

[[tag]]
name = "Revenue Forecast"
value = 7000
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	stack, err := config.OpenSources(cfg)
	if err != nil {
		t.Fatalf("OpenSources: %v", err)
	}
	defer stack.Close()

	ctx := context.Background()
	if err := stack.SQLite.Put(ctx, complete.Candidate{Name: "Revenue Target", Value: complete.Float(9000)}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	res := stack.Tracker(cfg).Lookup(ctx, "revenue")
	if res.Err != nil {
		t.Fatalf("Lookup: %v", res.Err)
	}
	var got []string
	for _, s := range res.Suggestions {
		got = append(got, s.Tag.Name)
	}
	if strings.Join(got, ",") != "Revenue Forecast,Revenue Target,Revenue" {
		t.Fatalf("suggestions = %v", got)
	}

	cfg.Tags = []complete.Candidate{{Name: "Revenue Plan"}}
	stack.Reload(cfg)
	res = stack.Tracker(cfg).Lookup(ctx, "revenue plan")
	if len(res.Suggestions) != 1 || res.Suggestions[0].Tag.Value != complete.FallbackValue {
		t.Fatalf("reloaded tags not visible: %+v", res.Suggestions)
	}
	if err := stack.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenSourcesRanksRemoteBeforeBuiltin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"ra","name":"Revenue Actual","value":4200}]`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	writeFile(t, path, "[autocomplete]\nurl = \""+srv.URL+"\"\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	stack, err := config.OpenSources(cfg)
	if err != nil {
		t.Fatalf("OpenSources: %v", err)
	}
	defer stack.Close()

	res := stack.Tracker(cfg).Lookup(context.Background(), "revenue")
	if res.Err != nil {
		t.Fatalf("Lookup: %v", res.Err)
	}
	var got []string
	for _, s := range res.Suggestions {
		got = append(got, s.Tag.Name)
	}
	if strings.Join(got, ",") != "Revenue Actual,Revenue" {
		t.Fatalf("suggestions = %v", got)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	writeFile(t, path, "[[tag]]\nname = \"a\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan config.Config, 4)
	err := config.Watch(ctx, path, func(cfg config.Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeFile(t, filepath.Join(dir, "unrelated.toml"), "x = 1")
	writeFile(t, path, "[[tag]]\nname = \"a\"\n[[tag]]\nname = \"b\"\n")

	select {
	case cfg := <-changes:
		if len(cfg.Tags) != 2 {
			t.Fatalf("reloaded config = %+v", cfg.Tags)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no reload after write")
	}
}
