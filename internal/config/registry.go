package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type.
	Type KeyType
	// Desc is a human-readable description shown in `reps config list`.
	Desc string
	// DefaultStr is the string representation of the default value.
	DefaultStr string

	get   func(*Config) string
	set   func(cfg *Config, value string) error
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"workout.default_minutes": {
		Type:       KeyTypeInt,
		Desc:       "Minutes recorded by `reps log` when --minutes is not given",
		DefaultStr: "0",
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Workout.DefaultMinutes) },
		set: func(cfg *Config, v string) error {
			n, err := parseNonNegative("workout.default_minutes", v)
			if err != nil {
				return err
			}
			cfg.Workout.DefaultMinutes = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Workout.DefaultMinutes = 0 },
	},
	"workout.default_kind": {
		Type:       KeyTypeString,
		Desc:       "Workout kind used when --kind is not given (e.g. strength, cardio)",
		DefaultStr: DefaultKind,
		get:        func(cfg *Config) string { return cfg.Workout.DefaultKind },
		set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				return fmt.Errorf("workout.default_kind cannot be empty")
			}
			cfg.Workout.DefaultKind = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Workout.DefaultKind = DefaultKind },
	},
	"calendar.poll_seconds": {
		Type:       KeyTypeInt,
		Desc:       "Seconds between checks for workouts logged elsewhere (0 disables)",
		DefaultStr: strconv.Itoa(DefaultPollSeconds),
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Calendar.PollSeconds) },
		set: func(cfg *Config, v string) error {
			n, err := parseNonNegative("calendar.poll_seconds", v)
			if err != nil {
				return err
			}
			cfg.Calendar.PollSeconds = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Calendar.PollSeconds = DefaultPollSeconds },
	},
	"log.level": {
		Type:       KeyTypeString,
		Desc:       "Log level (trace, debug, info, warn, error)",
		DefaultStr: DefaultLogLevel,
		get:        func(cfg *Config) string { return cfg.Log.Level },
		set: func(cfg *Config, v string) error {
			switch strings.ToLower(v) {
			case "trace", "debug", "info", "warn", "error":
				cfg.Log.Level = strings.ToLower(v)
				return nil
			}
			return fmt.Errorf("invalid log level %q (use trace, debug, info, warn or error)", v)
		},
		unset: func(cfg *Config) { cfg.Log.Level = DefaultLogLevel },
	},
	"log.file": {
		Type:       KeyTypeString,
		Desc:       "Log file path (default: XDG state dir)",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.Log.File },
		set:        func(cfg *Config, v string) error { cfg.Log.File = v; return nil },
		unset:      func(cfg *Config) { cfg.Log.File = "" },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

func parseNonNegative(key, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid value %q for %s: expected a non-negative integer", s, key)
	}
	return n, nil
}
