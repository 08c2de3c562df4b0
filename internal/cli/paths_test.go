package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelworks/reelgraph/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", customCache)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestNewCacheFallsBackWithoutCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")

	cc, err := newCache(false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	if _, ok := cc.(*cache.NullCache); !ok {
		t.Errorf("cache without a home dir should fall back to the null cache, got %T", cc)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"DerivedFromInput", "", "comp.toml", "comp"},
		{"OutputWithKnownExt", "out.svg", "comp.toml", "out"},
		{"OutputWithJSONExt", "graph.json", "comp.toml", "graph"},
		{"OutputWithoutExt", "dist/comp", "comp.toml", "dist/comp"},
		{"OutputWithForeignExt", "out.mp4", "comp.toml", "out.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "json" {
		t.Errorf("parseFormats(\"\") = %v, want [json]", got)
	}
	got := parseFormats("json,svg,dot")
	if len(got) != 3 || got[1] != "svg" {
		t.Errorf("parseFormats(json,svg,dot) = %v", got)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"json": []byte(`{}`),
		"svg":  []byte(`<svg/>`),
	}

	paths, err := writeArtifacts(artifacts, []string{"json", "svg"}, filepath.Join(dir, "comp.toml"), "")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact file %s: %v", p, err)
		}
		if !strings.HasPrefix(filepath.Base(p), "comp.") {
			t.Errorf("artifact %s should derive from the manifest name", p)
		}
	}
}

func TestWriteArtifactsExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "exact.json")

	paths, err := writeArtifacts(map[string][]byte{"json": []byte(`{}`)}, []string{"json"}, "comp.toml", out)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Errorf("paths = %v, want [%s]", paths, out)
	}
}
