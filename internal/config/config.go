// Package config handles loading shop.toml configuration files.
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Adnanskuyy/ShoppingABTest/internal/paths"
)

// ProjectFile is the name of the per-directory config file.
const ProjectFile = "shop.toml"

// Config represents the shop.toml configuration file.
type Config struct {
	Experiment  Experiment  `toml:"experiment"`
	Participant Participant `toml:"participant"`
	HUD         HUD         `toml:"hud"`
	Analytics   Analytics   `toml:"analytics"`
	Scene       Scene       `toml:"scene"`
}

// Experiment contains session timing configuration.
type Experiment struct {
	// Duration is the session length.
	Duration Duration `toml:"duration"`
	// PauseOnConfirm stops the countdown while the finish confirmation is open.
	PauseOnConfirm bool `toml:"pause-on-confirm"`
	// Tick is the wall-clock tick interval for realtime sessions.
	Tick Duration `toml:"tick"`
	// OnEnd is a script to run after a session ends. It receives SHOP_CODE,
	// SHOP_UID and SHOP_VARIANT in its environment.
	OnEnd string `toml:"on-end"`
}

// Participant supplies default bootstrap values.
type Participant struct {
	ID      string `toml:"id"`
	Variant string `toml:"variant"`
}

// HUD contains presentation configuration.
type HUD struct {
	NotificationDuration Duration `toml:"notification-duration"`
}

// Analytics selects where events are delivered.
type Analytics struct {
	EventsDir   string `toml:"events-dir"`
	SQLite      string `toml:"sqlite"`
	Endpoint    string `toml:"endpoint"`
	MetricsAddr string `toml:"metrics-addr"`
}

// Scene selects the product catalog.
type Scene struct {
	Catalog string `toml:"catalog"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if parsed < 0 {
		return fmt.Errorf("invalid duration %q: negative", value)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load loads configuration from dir and the global config file.
// Returns an empty config if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}

	globalCfg, _, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFile))
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, projectCfg, projectMeta), nil
}

// GlobalPath returns the location of the global config file.
func GlobalPath() (string, error) {
	configDir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}
	defined := func(key ...string) bool {
		return projectMeta.IsDefined(key...)
	}

	merged := Config{}
	merged.Experiment.Duration = pick(defined("experiment", "duration"), projectCfg.Experiment.Duration, globalCfg.Experiment.Duration)
	merged.Experiment.PauseOnConfirm = pick(defined("experiment", "pause-on-confirm"), projectCfg.Experiment.PauseOnConfirm, globalCfg.Experiment.PauseOnConfirm)
	merged.Experiment.Tick = pick(defined("experiment", "tick"), projectCfg.Experiment.Tick, globalCfg.Experiment.Tick)
	merged.Experiment.OnEnd = mergeString(defined("experiment", "on-end"), projectCfg.Experiment.OnEnd, globalCfg.Experiment.OnEnd)
	merged.Participant.ID = mergeString(defined("participant", "id"), projectCfg.Participant.ID, globalCfg.Participant.ID)
	merged.Participant.Variant = mergeString(defined("participant", "variant"), projectCfg.Participant.Variant, globalCfg.Participant.Variant)
	merged.HUD.NotificationDuration = pick(defined("hud", "notification-duration"), projectCfg.HUD.NotificationDuration, globalCfg.HUD.NotificationDuration)
	merged.Analytics.EventsDir = mergeString(defined("analytics", "events-dir"), projectCfg.Analytics.EventsDir, globalCfg.Analytics.EventsDir)
	merged.Analytics.SQLite = mergeString(defined("analytics", "sqlite"), projectCfg.Analytics.SQLite, globalCfg.Analytics.SQLite)
	merged.Analytics.Endpoint = mergeString(defined("analytics", "endpoint"), projectCfg.Analytics.Endpoint, globalCfg.Analytics.Endpoint)
	merged.Analytics.MetricsAddr = mergeString(defined("analytics", "metrics-addr"), projectCfg.Analytics.MetricsAddr, globalCfg.Analytics.MetricsAddr)
	merged.Scene.Catalog = mergeString(defined("scene", "catalog"), projectCfg.Scene.Catalog, globalCfg.Scene.Catalog)

	return &merged
}

func pick[T any](projectDefined bool, projectValue, globalValue T) T {
	if projectDefined {
		return projectValue
	}
	return globalValue
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	return strings.TrimSpace(pick(projectDefined, projectValue, globalValue))
}

// RunHook executes a script in the given directory with extra environment
// variables appended to the current environment.
// If the script starts with a shebang (#!), that interpreter is used.
// Otherwise, the script is run with /bin/bash.
func RunHook(ctx context.Context, dir, script string, env []string, stdout, stderr io.Writer) error {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil
	}

	var interpreter string
	var scriptBody string

	if strings.HasPrefix(script, "#!") {
		lines := strings.SplitN(script, "\n", 2)
		interpreter = strings.TrimSpace(strings.TrimPrefix(lines[0], "#!"))
		if len(lines) > 1 {
			scriptBody = lines[1]
		}
	} else {
		interpreter = "/bin/bash"
		scriptBody = script
	}

	// Parse interpreter and args (e.g., "/usr/bin/env python3" or "/bin/bash -e")
	parts := strings.Fields(interpreter)
	if len(parts) == 0 {
		return fmt.Errorf("empty interpreter in shebang")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = strings.NewReader(scriptBody)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run hook: %w", err)
	}
	return nil
}
