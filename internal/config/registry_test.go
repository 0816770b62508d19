package config

import (
	"sort"
	"testing"
)

func TestValidKeyNames_Sorted(t *testing.T) {
	names := ValidKeyNames()
	if len(names) == 0 {
		t.Fatal("expected at least one key")
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("keys not sorted: %v", names)
	}
}

func TestLookupKey(t *testing.T) {
	if _, ok := LookupKey("workout.default_kind"); !ok {
		t.Fatal("expected workout.default_kind to be known")
	}
	if _, ok := LookupKey("nope.nothing"); ok {
		t.Fatal("expected unknown key")
	}
}

func TestSetGetUnset_IntKey(t *testing.T) {
	cfg := defaultConfig()
	entry, _ := LookupKey("workout.default_minutes")

	if err := entry.Set(cfg, "45"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := entry.Get(cfg); got != "45" {
		t.Fatalf("Get = %q, want 45", got)
	}
	entry.Unset(cfg)
	if got := entry.Get(cfg); got != entry.DefaultStr {
		t.Fatalf("after Unset Get = %q, want %q", got, entry.DefaultStr)
	}
}

func TestSet_IntInvalid(t *testing.T) {
	cfg := defaultConfig()
	entry, _ := LookupKey("calendar.poll_seconds")
	for _, v := range []string{"abc", "-1", "1.5"} {
		if err := entry.Set(cfg, v); err == nil {
			t.Errorf("Set(%q) expected error", v)
		}
	}
}

func TestSet_LogLevel(t *testing.T) {
	cfg := defaultConfig()
	entry, _ := LookupKey("log.level")
	if err := entry.Set(cfg, "DEBUG"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Log.Level)
	}
	if err := entry.Set(cfg, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSet_EmptyKindRejected(t *testing.T) {
	cfg := defaultConfig()
	entry, _ := LookupKey("workout.default_kind")
	if err := entry.Set(cfg, "  "); err == nil {
		t.Fatal("expected error for empty kind")
	}
}

func TestAllSchemaKeys_GetSetUnsetDoNotPanic(t *testing.T) {
	for _, name := range ValidKeyNames() {
		entry, _ := LookupKey(name)
		cfg := defaultConfig()
		_ = entry.Get(cfg)
		_ = entry.Set(cfg, entry.DefaultStr)
		entry.Unset(cfg)
		if entry.Desc == "" {
			t.Errorf("key %q has no description", name)
		}
		if entry.Type != KeyTypeString && entry.Type != KeyTypeInt {
			t.Errorf("key %q has invalid type %q", name, entry.Type)
		}
	}
}

func TestUnsetRestoresDefaults(t *testing.T) {
	for _, name := range ValidKeyNames() {
		entry, _ := LookupKey(name)
		cfg := defaultConfig()
		entry.Unset(cfg)
		if got := entry.Get(cfg); got != entry.DefaultStr {
			t.Errorf("%s: after Unset Get = %q, want %q", name, got, entry.DefaultStr)
		}
	}
}
