package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rnwolfe/reps/internal/config"
)

// configTestEnv points every XDG directory at a temp dir.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	return <-done
}

func TestRunConfigGet_KnownKey(t *testing.T) {
	configTestEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Workout.DefaultKind = "strength"
	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := captureStdout(t, func() {
		if err := runConfigGet(nil, []string{"workout.default_kind"}); err != nil {
			t.Errorf("runConfigGet: %v", err)
		}
	})

	if strings.TrimSpace(out) != "strength" {
		t.Fatalf("expected 'strength', got: %q", out)
	}
}

func TestRunConfigGet_UnknownKey(t *testing.T) {
	configTestEnv(t)

	err := runConfigGet(nil, []string{"not.a.real.key"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("expected 'unknown config key' in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "user.name") {
		t.Errorf("expected valid key hint in error, got: %v", err)
	}
}

func TestRunConfigSet_KnownKey(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runConfigSet(nil, []string{"user.name", "Bob"}); err != nil {
			t.Errorf("runConfigSet: %v", err)
		}
	})
	if !strings.Contains(out, "user.name") {
		t.Errorf("expected key name in output, got: %q", out)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.Name != "Bob" {
		t.Fatalf("expected User.Name='Bob', got %q", cfg.User.Name)
	}
}

func TestRunConfigSet_UnknownKey(t *testing.T) {
	configTestEnv(t)

	err := runConfigSet(nil, []string{"fake.key", "value"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("expected 'unknown config key' error, got: %v", err)
	}
}

func TestRunConfigSet_IntTypeMismatch(t *testing.T) {
	configTestEnv(t)

	if err := runConfigSet(nil, []string{"calendar.poll_seconds", "often"}); err == nil {
		t.Fatal("expected type mismatch error")
	}
	if config.Initialized() {
		t.Fatal("a rejected value must not write the config file")
	}
}

func TestRunConfigUnset_KnownKey(t *testing.T) {
	configTestEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Calendar.PollSeconds = 30
	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := captureStdout(t, func() {
		if err := runConfigUnset(nil, []string{"calendar.poll_seconds"}); err != nil {
			t.Errorf("runConfigUnset: %v", err)
		}
	})
	if !strings.Contains(out, "calendar.poll_seconds") {
		t.Errorf("expected key name in output, got: %q", out)
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Calendar.PollSeconds != config.DefaultPollSeconds {
		t.Fatalf("expected poll_seconds=%d after unset, got %d", config.DefaultPollSeconds, loaded.Calendar.PollSeconds)
	}
}

func TestRunConfigUnset_UnknownKey(t *testing.T) {
	configTestEnv(t)

	err := runConfigUnset(nil, []string{"ghost.key"})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("expected 'unknown config key' error, got: %v", err)
	}
}

func TestRunConfigList_ShowsKeys(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runConfigList(nil, nil); err != nil {
			t.Errorf("runConfigList: %v", err)
		}
	})

	for _, key := range config.ValidKeyNames() {
		if !strings.Contains(out, key) {
			t.Errorf("expected key %q in list output, got:\n%s", key, out)
		}
	}
}

func TestRunConfigPath_PrintsPath(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runConfigPath(nil, nil); err != nil {
			t.Errorf("runConfigPath: %v", err)
		}
	})

	if !strings.Contains(out, "config.toml") {
		t.Fatalf("expected 'config.toml' in path output, got: %q", out)
	}
}

func TestRunConfigShow(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		if err := runConfigShow(nil, nil); err != nil {
			t.Errorf("runConfigShow: %v", err)
		}
	})
	for _, want := range []string{"Configuration", config.DefaultKind, "reps.db"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}
