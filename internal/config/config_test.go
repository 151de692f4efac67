package config_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Adnanskuyy/ShoppingABTest/internal/config"
	"github.com/Adnanskuyy/ShoppingABTest/internal/testsupport"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.Experiment.Duration != 0 {
		t.Error("expected zero duration")
	}

	if cfg.Participant.ID != "" || cfg.Participant.Variant != "" {
		t.Error("expected empty participant")
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeConfig(t, filepath.Join(tmpDir, config.ProjectFile), `
[experiment]
duration = "90s"
pause-on-confirm = true
tick = "50ms"
on-end = "echo done"

[participant]
id = " LAB-7 "
variant = "a"

[hud]
notification-duration = "1.5s"

[analytics]
events-dir = "events"
sqlite = "events.db"
endpoint = "http://localhost:9000/collect"
metrics-addr = ":9090"

[scene]
catalog = "catalog.yaml"
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Experiment.Duration.Std() != 90*time.Second {
		t.Errorf("Duration = %s, expected 90s", cfg.Experiment.Duration.Std())
	}
	if !cfg.Experiment.PauseOnConfirm {
		t.Error("expected PauseOnConfirm")
	}
	if cfg.Experiment.Tick.Std() != 50*time.Millisecond {
		t.Errorf("Tick = %s, expected 50ms", cfg.Experiment.Tick.Std())
	}
	if cfg.Experiment.OnEnd != "echo done" {
		t.Errorf("OnEnd = %q", cfg.Experiment.OnEnd)
	}
	if cfg.Participant.ID != "LAB-7" || cfg.Participant.Variant != "a" {
		t.Errorf("unexpected participant: %#v", cfg.Participant)
	}
	if cfg.HUD.NotificationDuration.Std() != 1500*time.Millisecond {
		t.Errorf("NotificationDuration = %s", cfg.HUD.NotificationDuration.Std())
	}
	if cfg.Analytics.EventsDir != "events" || cfg.Analytics.SQLite != "events.db" {
		t.Errorf("unexpected analytics: %#v", cfg.Analytics)
	}
	if cfg.Analytics.Endpoint != "http://localhost:9000/collect" || cfg.Analytics.MetricsAddr != ":9090" {
		t.Errorf("unexpected analytics: %#v", cfg.Analytics)
	}
	if cfg.Scene.Catalog != "catalog.yaml" {
		t.Errorf("Catalog = %q", cfg.Scene.Catalog)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeConfig(t, filepath.Join(tmpDir, config.ProjectFile), `[experiment
duration = "1m"`)

	if _, err := config.Load(tmpDir); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	for _, value := range []string{`"soon"`, `"-5s"`} {
		writeConfig(t, filepath.Join(tmpDir, config.ProjectFile), "[experiment]\nduration = "+value+"\n")
		if _, err := config.Load(tmpDir); err == nil {
			t.Fatalf("expected error for duration %s", value)
		}
	}
}

func TestLoad_UsesGlobalWhenProjectMissing(t *testing.T) {
	testsupport.SetupTestHome(t)
	globalPath, err := config.GlobalPath()
	if err != nil {
		t.Fatalf("global path: %v", err)
	}
	writeConfig(t, globalPath, `
[experiment]
duration = "2m"

[participant]
variant = "B"
`)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Experiment.Duration.Std() != 2*time.Minute {
		t.Errorf("Duration = %s, expected 2m", cfg.Experiment.Duration.Std())
	}
	if cfg.Participant.Variant != "B" {
		t.Errorf("Variant = %q, expected B", cfg.Participant.Variant)
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	testsupport.SetupTestHome(t)
	globalPath, err := config.GlobalPath()
	if err != nil {
		t.Fatalf("global path: %v", err)
	}
	writeConfig(t, globalPath, `
[experiment]
duration = "2m"
pause-on-confirm = true

[analytics]
endpoint = "http://global/collect"
sqlite = "global.db"
`)
	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, config.ProjectFile), `
[experiment]
duration = "30s"

[analytics]
endpoint = "http://project/collect"
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Experiment.Duration.Std() != 30*time.Second {
		t.Errorf("Duration = %s, expected 30s", cfg.Experiment.Duration.Std())
	}
	if !cfg.Experiment.PauseOnConfirm {
		t.Error("expected global PauseOnConfirm to survive")
	}
	if cfg.Analytics.Endpoint != "http://project/collect" {
		t.Errorf("Endpoint = %q", cfg.Analytics.Endpoint)
	}
	if cfg.Analytics.SQLite != "global.db" {
		t.Errorf("SQLite = %q", cfg.Analytics.SQLite)
	}
}

func TestLoad_ProjectEmptyOverridesGlobal(t *testing.T) {
	testsupport.SetupTestHome(t)
	globalPath, err := config.GlobalPath()
	if err != nil {
		t.Fatalf("global path: %v", err)
	}
	writeConfig(t, globalPath, `
[experiment]
pause-on-confirm = true

[participant]
id = "GLOBAL"
`)
	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, config.ProjectFile), `
[experiment]
pause-on-confirm = false

[participant]
id = ""
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Experiment.PauseOnConfirm {
		t.Error("expected project to switch PauseOnConfirm off")
	}
	if cfg.Participant.ID != "" {
		t.Errorf("expected empty participant id, got %q", cfg.Participant.ID)
	}
}

func TestRunHook_Empty(t *testing.T) {
	tmpDir := t.TempDir()

	if err := config.RunHook(context.Background(), tmpDir, "   ", nil, nil, nil); err != nil {
		t.Errorf("unexpected error for whitespace script: %v", err)
	}
}

func TestRunHook_ReceivesEnvironment(t *testing.T) {
	tmpDir := t.TempDir()

	var stdout bytes.Buffer
	script := `echo "$SHOP_CODE" > code.txt
echo "variant $SHOP_VARIANT"`
	env := []string{"SHOP_CODE=AB12CD-10-3", "SHOP_VARIANT=A"}
	if err := config.RunHook(context.Background(), tmpDir, script, env, &stdout, nil); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "code.txt"))
	if err != nil {
		t.Fatalf("read code.txt: %v", err)
	}
	if strings.TrimSpace(string(data)) != "AB12CD-10-3" {
		t.Errorf("code.txt = %q", data)
	}
	if strings.TrimSpace(stdout.String()) != "variant A" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunHook_ShebangWithArgs(t *testing.T) {
	tmpDir := t.TempDir()

	script := `#!/bin/bash -e
touch success.txt
`

	if err := config.RunHook(context.Background(), tmpDir, script, nil, nil, nil); err != nil {
		t.Fatalf("script failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "success.txt")); os.IsNotExist(err) {
		t.Error("script did not create file")
	}
}

func TestRunHook_FailingScript(t *testing.T) {
	tmpDir := t.TempDir()

	if err := config.RunHook(context.Background(), tmpDir, "exit 1", nil, nil, nil); err == nil {
		t.Error("expected error for failing script")
	}
}
