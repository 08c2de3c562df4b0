package cli

import (
	"context"
	"io"
	"testing"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "reelgraph" {
		t.Errorf("Use = %q", root.Use)
	}

	want := map[string]bool{
		"build":      false,
		"tracks":     false,
		"time":       false,
		"inspect":    false,
		"serve":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.PersistentPreRunE == nil {
		t.Fatal("root command should set PersistentPreRunE")
	}

	root.SetContext(context.Background())
	if err := root.PersistentPreRunE(root, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}

	if loggerFromContext(root.Context()) != c.Logger {
		t.Error("command context should carry the CLI logger")
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
