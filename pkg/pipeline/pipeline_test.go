package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/reelworks/reelgraph/pkg/cache"
	"github.com/reelworks/reelgraph/pkg/observability"
	"github.com/reelworks/reelgraph/pkg/rendergraph"
	"github.com/reelworks/reelgraph/pkg/timecode"
)

const testManifest = `
fps = 30

[[scenes]]
type = "TitleCard"
duration = "2s"
[scenes.props]
title = "Hello"

[[scenes]]
track = "overlay"
type = "LowerThird"
duration = 1.5
align_to = "main"
`

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "comp.toml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatJSON, FormatSVG, FormatDOT, FormatTree} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%s) = %v", f, err)
		}
	}
	if err := ValidateFormat("png"); err == nil {
		t.Error("ValidateFormat(png) should fail")
	}
	if err := ValidateFormats([]string{FormatJSON, "bogus"}); err == nil {
		t.Error("ValidateFormats with bogus entry should fail")
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("empty options should require a manifest")
	}

	opts = Options{Manifest: "comp.toml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want default [json]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger default not applied")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}
}

func TestOptionsRejectInvalidFormat(t *testing.T) {
	opts := Options{Manifest: "comp.toml", Formats: []string{"png"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("invalid format should be rejected")
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Manifest: writeManifest(t),
		Formats:  []string{FormatJSON, FormatSVG, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.SceneCount != 2 || result.Stats.ComponentCount != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}

	g, err := rendergraph.Unmarshal(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if g.FPS != 30 || len(g.Components) != 2 {
		t.Errorf("graph = fps %d, %d components", g.FPS, len(g.Components))
	}

	if !strings.HasPrefix(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact should be an svg document")
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatDOT]), "digraph G {") {
		t.Error("dot artifact should be a digraph")
	}
}

func TestRunnerExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, quietLogger())
	defer runner.Close()

	opts := Options{Manifest: writeManifest(t), Formats: []string{FormatJSON}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.EmitHit {
		t.Errorf("first run should miss, got %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.EmitHit {
		t.Errorf("second run should hit, got %+v", second.CacheInfo)
	}
	if second.GraphHash != first.GraphHash {
		t.Error("graph hash should be stable across cached runs")
	}

	// Refresh bypasses the cache
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.BuildHit {
		t.Error("refresh run should rebuild")
	}
}

// placeRecorder captures OnPlace events for assertions.
type placeRecorder struct {
	observability.NoopBuildHooks
	frames [][2]int
}

func (r *placeRecorder) OnPlace(_ context.Context, _, _ string, start, duration int) {
	r.frames = append(r.frames, [2]int{start, duration})
}

func TestBuildHooksReportFrameGridValues(t *testing.T) {
	rec := &placeRecorder{}
	observability.SetBuildHooks(rec)
	defer observability.Reset()

	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{Manifest: writeManifest(t)}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Placements in layer order: TitleCard after the main track's default
	// half-second gap, then the LowerThird aligned to main's cursor.
	conv := timecode.Converter{FPS: 30}
	want := [][2]int{
		{conv.FramesFromSeconds(0.5), conv.FramesFromSeconds(2)},
		{conv.FramesFromSeconds(2.5), conv.FramesFromSeconds(1.5)},
	}
	if len(rec.frames) != len(want) {
		t.Fatalf("placements = %v, want %d entries", rec.frames, len(want))
	}
	for i, w := range want {
		if rec.frames[i] != w {
			t.Errorf("placement %d = %v, want %v", i, rec.frames[i], w)
		}
	}
}

func TestRunnerExecuteCanceled(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Execute(ctx, Options{Manifest: writeManifest(t)}); err == nil {
		t.Error("canceled context should abort the pipeline")
	}
}

func TestRunnerLoadMissingManifest(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	if _, err := runner.Load(context.Background(), Options{Manifest: filepath.Join(t.TempDir(), "nope.toml")}); err == nil {
		t.Error("missing manifest should fail")
	}
}

func TestEmitArtifactsUnknownFormat(t *testing.T) {
	_, err := EmitArtifacts(rendergraph.Graph{}, Options{Formats: []string{"webm"}})
	if err == nil {
		t.Error("unknown format should fail")
	}
}
