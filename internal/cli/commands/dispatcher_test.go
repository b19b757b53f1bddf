package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"StoreText/internal/config"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{}) })
	if !strings.Contains(out, "StoreText CLI") {
		t.Fatalf("global help expected")
	}
	for _, name := range []string{"notes", "new", "show", "edit", "encrypt", "share", "export", "site-push", "status"} {
		if !strings.Contains(out, name) {
			t.Fatalf("command %q missing from help", name)
		}
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help"}) })
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage expected")
	}

	var code int
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"help", "share"}) })
	if code != 0 || !strings.Contains(out, "Usage: share [--site <name>] [--qr] <id>") {
		t.Fatalf("expected share usage, got %d %q", code, out)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help", "nope"}) })
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"no-such"}) })
	if code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	cmdOK := fakeCmd{name: "x", usage: "x", run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }}
	RegisterCmd(cmdOK)
	t.Cleanup(func() { delete(registry, "x"); delete(registry, "u"); delete(registry, "e") })
	if code := Dispatch(context.Background(), &config.Config{}, []string{"X"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	cmdUsage := fakeCmd{name: "u", usage: "u <arg>", run: func(_ context.Context, _ *config.Config, _ []string) error {
		return fmt.Errorf("wrapped: %w", ErrUsage)
	}}
	RegisterCmd(cmdUsage)
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"u"}) })
	if code != 2 || !strings.Contains(out, "Usage: u <arg>") {
		t.Fatalf("usage text expected, got %d %q", code, out)
	}

	cmdErr := fakeCmd{name: "e", usage: "e", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }}
	RegisterCmd(cmdErr)
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"e"}) })
	if code != 1 || !strings.Contains(out, "e error:") || !strings.Contains(out, "boom") {
		t.Fatalf("error line expected, got: %s", out)
	}
}
