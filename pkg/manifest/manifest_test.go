package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reelworks/reelgraph/pkg/errors"
	"github.com/reelworks/reelgraph/pkg/timeline"
)

const sampleTOML = `
fps = 30
theme = "midnight"

[[tracks]]
name = "captions"
layer = 20
gap = 0.1

[[scenes]]
track = "main"
type = "TitleCard"
duration = "3s"
[scenes.props]
title = "Welcome"

[[scenes]]
track = "overlay"
type = "LowerThird"
duration = 2.0
align_to = "main"
offset = "500ms"
[scenes.props.badge]
type = "Badge"
[scenes.props.badge.config]
text = "LIVE"
`

func TestParseAndBuild(t *testing.T) {
	m, err := Parse([]byte(sampleTOML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.FPS != 30 || m.Theme != "midnight" {
		t.Errorf("globals = fps %d theme %q", m.FPS, m.Theme)
	}
	if len(m.Tracks) != 1 || len(m.Scenes) != 2 {
		t.Fatalf("tracks=%d scenes=%d", len(m.Tracks), len(m.Scenes))
	}

	tl, err := m.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(tl.Tracks()) != 4 {
		t.Errorf("track count = %d, want default 3 + captions", len(tl.Tracks()))
	}

	all := tl.Components()
	if len(all) != 2 {
		t.Fatalf("components = %d, want 2", len(all))
	}
	title := all[0] // layer 0 sorts before overlay's 10
	if title.Type != "TitleCard" || title.StartFrame != 15 || title.DurationFrames != 90 {
		t.Errorf("title = %+v", title)
	}
	lower := all[1]
	if lower.StartFrame != 120 { // main cursor 105 + 500ms
		t.Errorf("lower start = %d, want 120", lower.StartFrame)
	}
	badge, ok := lower.Props["badge"].(*timeline.Component)
	if !ok || badge.Type != "Badge" || badge.Props["text"] != "LIVE" {
		t.Errorf("nested badge = %v", lower.Props["badge"])
	}
}

func TestSceneDirectivePrecedence(t *testing.T) {
	start := 100
	m := &Manifest{Scenes: []Scene{{
		Type:       "Scene",
		Duration:   1.0,
		StartFrame: &start,
		AlignTo:    "overlay",
		Offset:     9.0,
		GapBefore:  "9s",
	}}}

	tl, err := m.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := tl.Components()[0].StartFrame; got != 100 {
		t.Errorf("start = %d, want explicit 100", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
	}{
		{"MissingSceneType", Manifest{Scenes: []Scene{{Duration: 1.0}}}},
		{"MissingDuration", Manifest{Scenes: []Scene{{Type: "X"}}}},
		{"UnnamedTrack", Manifest{Tracks: []TrackDef{{Layer: 5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("Validate() = %v, want INVALID_MANIFEST", err)
			}
		})
	}
}

func TestBuildErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
		code errors.Code
	}{
		{"UnknownTrack", Manifest{Scenes: []Scene{{Type: "X", Duration: 1.0, Track: "nope"}}}, errors.ErrCodeTrackNotFound},
		{"DuplicateTrack", Manifest{Tracks: []TrackDef{{Name: "main"}}}, errors.ErrCodeDuplicateTrack},
		{"ZeroDuration", Manifest{Scenes: []Scene{{Type: "X", Duration: 0.0}}}, errors.ErrCodeInvalidDuration},
		{"BadTime", Manifest{Scenes: []Scene{{Type: "X", Duration: "5h"}}}, errors.ErrCodeInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.m.Build(); !errors.Is(err, tt.code) {
				t.Errorf("Build() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "comp.json")
	data := `{
		"fps": 24,
		"scenes": [{"type": "Scene", "duration": "2s", "props": {"n": 1}}]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.FPS != 24 || len(m.Scenes) != 1 {
		t.Errorf("manifest = %+v", m)
	}

	tl, err := m.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := tl.Components()[0].DurationFrames; got != 48 {
		t.Errorf("duration = %d frames, want 48 at 24fps", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(absent) = %v, want FILE_NOT_FOUND", err)
	}
}
