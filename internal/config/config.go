package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the top-level reps configuration.
type Config struct {
	User     UserConfig     `toml:"user"`
	Workout  WorkoutConfig  `toml:"workout"`
	Calendar CalendarConfig `toml:"calendar"`
	Log      LogConfig      `toml:"log"`
}

type UserConfig struct {
	Name string `toml:"name"`
}

// WorkoutConfig holds defaults for `reps log`.
type WorkoutConfig struct {
	DefaultMinutes int    `toml:"default_minutes"`
	DefaultKind    string `toml:"default_kind"`
}

// CalendarConfig controls the interactive calendar.
type CalendarConfig struct {
	// PollSeconds is how often the calendar checks the database for
	// workouts logged by another reps process. Zero disables polling.
	PollSeconds int `toml:"poll_seconds"`
}

// PollInterval returns the poll period as a duration.
func (c CalendarConfig) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	Level string `toml:"level"`
	// File overrides the default log path in the XDG state dir.
	File string `toml:"file"`
}

const (
	DefaultKind        = "general"
	DefaultPollSeconds = 2
	DefaultLogLevel    = "info"
)

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
	LogFile    string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	repsConfig := filepath.Join(configDir, "reps")
	repsData := filepath.Join(dataDir, "reps")
	repsState := filepath.Join(stateDir, "reps")

	return Paths{
		ConfigDir:  repsConfig,
		DataDir:    repsData,
		CacheDir:   filepath.Join(cacheDir, "reps"),
		StateDir:   repsState,
		ConfigFile: filepath.Join(repsConfig, "config.toml"),
		DBFile:     filepath.Join(repsData, "reps.db"),
		LogFile:    filepath.Join(repsState, "reps.log"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
// Keys missing from the file keep their default values.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if a config file has been written.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

func defaultConfig() *Config {
	return &Config{
		Workout: WorkoutConfig{
			DefaultKind: DefaultKind,
		},
		Calendar: CalendarConfig{
			PollSeconds: DefaultPollSeconds,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
