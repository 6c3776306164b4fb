package intercept

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quocvuong92/ai-shell/internal/agent"
	"github.com/quocvuong92/ai-shell/internal/config"
	"github.com/quocvuong92/ai-shell/internal/constants"
)

// newTestInterceptor wires an interceptor to a fake CLI whose only job is
// to drop a marker file proving it was spawned.
func newTestInterceptor(t *testing.T) (*Interceptor, string) {
	t.Helper()
	dir := t.TempDir()
	marker := filepath.Join(dir, "spawned")
	script := "#!/bin/sh\n" +
		"touch " + marker + "\n" +
		`echo '{"type":"system","subtype":"init","session_id":"s","model":"m"}'` + "\n" +
		`echo '{"type":"result","usage":{"input_tokens":1,"output_tokens":1}}'` + "\n"
	bin := filepath.Join(dir, "fake_claude")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake CLI: %v", err)
	}

	cfg := &config.Config{
		ClaudeBinary: bin,
		SkipList:     constants.DefaultSkipList,
		QueryTimeout: 10 * time.Second,
		LoginTimeout: 5 * time.Second,
		GracePeriod:  time.Second,
	}
	return New(cfg, agent.New(cfg)), marker
}

func spawned(marker string) bool {
	_, err := os.Stat(marker)
	return err == nil
}

func TestOnCommandNotFoundEmptyInput(t *testing.T) {
	i, marker := newTestInterceptor(t)

	for _, tokens := range [][]string{nil, {}, {""}, {"  ", ""}} {
		res := i.OnCommandNotFound(context.Background(), tokens)
		if res.Handled {
			t.Errorf("OnCommandNotFound(%q) handled, want declined", tokens)
		}
	}
	if spawned(marker) {
		t.Error("empty input must not spawn the CLI")
	}
}

func TestOnCommandNotFoundSkipList(t *testing.T) {
	i, marker := newTestInterceptor(t)

	res := i.OnCommandNotFound(context.Background(), []string{"lx"})
	if res.Handled {
		t.Error("skip-listed typo should fall through to the shell's own error")
	}
	if spawned(marker) {
		t.Error("skip-listed command must not spawn the CLI")
	}
}

func TestOnCommandNotFoundSkipListFirstTokenOnly(t *testing.T) {
	// The skip-list matches the command word, not words inside a query.
	i, marker := newTestInterceptor(t)

	res := i.OnCommandNotFound(context.Background(), []string{"what", "does", "lx", "mean"})
	if !res.Handled {
		t.Fatal("query mentioning a skip word should still be handled")
	}
	if !spawned(marker) {
		t.Error("expected the CLI to run for a real query")
	}
}

func TestOnCommandNotFoundRunsQuery(t *testing.T) {
	i, marker := newTestInterceptor(t)

	res := i.OnCommandNotFound(context.Background(), []string{"how", "do", "I", "find", "large", "files"})
	if !res.Handled {
		t.Fatal("unresolved query should be handled")
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !spawned(marker) {
		t.Error("expected the CLI to be spawned")
	}
}

func TestAskBypassesSkipList(t *testing.T) {
	i, marker := newTestInterceptor(t)

	res := i.Ask(context.Background(), "lx")
	if !res.Handled {
		t.Fatal("explicit Ask should never be skipped")
	}
	if !spawned(marker) {
		t.Error("expected the CLI to be spawned for an explicit Ask")
	}
}

func TestAskReportsSuccessOnAgentFailure(t *testing.T) {
	cfg := &config.Config{
		ClaudeBinary: filepath.Join(t.TempDir(), "missing"),
		QueryTimeout: 5 * time.Second,
		LoginTimeout: time.Second,
		GracePeriod:  time.Second,
	}
	i := New(cfg, agent.New(cfg))

	res := i.Ask(context.Background(), "anything")
	if !res.Handled || res.ExitCode != 0 {
		t.Errorf("result = %+v, want handled with exit 0 even when the agent fails", res)
	}
}
