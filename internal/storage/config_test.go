package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/storage"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(storage.LogLevelEnv, "")
	config, err := storage.LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config != model.DefaultConfig() {
		t.Errorf("config = %+v, want defaults", config)
	}
}

func TestLoadConfigReadsJSON(t *testing.T) {
	t.Setenv(storage.LogLevelEnv, "")
	path := writeFile(t, "config.json", `{"workDurationMinutes": 50, "breakDurationSeconds": 600, `+
		`"warningTimeSeconds": 30, "declineResetsTimer": true, `+
		`"logLevel": "debug", "controlAddress": "127.0.0.1:7420"}`)

	config, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.WorkDuration != 50*time.Minute {
		t.Errorf("WorkDuration = %v, want 50m", config.WorkDuration)
	}
	if config.BreakDuration != 10*time.Minute {
		t.Errorf("BreakDuration = %v, want 10m", config.BreakDuration)
	}
	if config.WarningThreshold != 30*time.Second {
		t.Errorf("WarningThreshold = %v, want 30s", config.WarningThreshold)
	}
	if !config.DeclineResetsTimer {
		t.Error("DeclineResetsTimer = false, want true")
	}
	if config.LogLevel != "debug" || config.ControlAddress != "127.0.0.1:7420" {
		t.Errorf("LogLevel, ControlAddress = %q, %q", config.LogLevel, config.ControlAddress)
	}
}

func TestLoadConfigReadsYAML(t *testing.T) {
	t.Setenv(storage.LogLevelEnv, "")
	path := writeFile(t, "config.yaml", "workDurationMinutes: 45\nlogFormat: json\n")

	config, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.WorkDuration != 45*time.Minute || config.LogFormat != "json" {
		t.Errorf("config = %+v", config)
	}
	if config.BreakDuration != model.DefaultBreakDurationSeconds*time.Second {
		t.Errorf("BreakDuration = %v, want default", config.BreakDuration)
	}
}

func TestLoadConfigZeroWorkDurationFallsBack(t *testing.T) {
	t.Setenv(storage.LogLevelEnv, "")
	path := writeFile(t, "config.json", `{"workDurationMinutes": 0}`)

	config, err := storage.LoadConfig(path)
	if !errors.Is(err, storage.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if config.WorkDuration != model.DefaultWorkDurationMinutes*time.Minute {
		t.Errorf("WorkDuration = %v, want default", config.WorkDuration)
	}
	if config.WorkDuration <= 0 {
		t.Fatal("zero-length work interval accepted")
	}
}

func TestLoadConfigInvalidFieldsFallBackIndividually(t *testing.T) {
	t.Setenv(storage.LogLevelEnv, "")
	path := writeFile(t, "config.json", `{"workDurationMinutes": -3, "breakDurationSeconds": "long", "warningTimeSeconds": 12}`)

	config, err := storage.LoadConfig(path)
	if !errors.Is(err, storage.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if config.WorkDuration != model.DefaultWorkDurationMinutes*time.Minute {
		t.Errorf("WorkDuration = %v, want default", config.WorkDuration)
	}
	if config.BreakDuration != model.DefaultBreakDurationSeconds*time.Second {
		t.Errorf("BreakDuration = %v, want default", config.BreakDuration)
	}
	if config.WarningThreshold != 12*time.Second {
		t.Errorf("WarningThreshold = %v, want 12s", config.WarningThreshold)
	}

	// Values whose duration would overflow keep their defaults too.
	path = writeFile(t, "huge.json", `{"workDurationMinutes": 307445735, "warningTimeSeconds": 18446744074, "breakDurationSeconds": 60}`)
	config, err = storage.LoadConfig(path)
	if !errors.Is(err, storage.ErrInvalidConfig) {
		t.Errorf("huge: err = %v, want ErrInvalidConfig", err)
	}
	if config.WorkDuration != model.DefaultWorkDurationMinutes*time.Minute {
		t.Errorf("huge: WorkDuration = %v, want default", config.WorkDuration)
	}
	if config.WarningThreshold != model.DefaultWarningTimeSeconds*time.Second {
		t.Errorf("huge: WarningThreshold = %v, want default", config.WarningThreshold)
	}
	if config.BreakDuration != time.Minute {
		t.Errorf("huge: BreakDuration = %v, want 1m", config.BreakDuration)
	}
}

func TestLoadConfigMalformedUsesDefaults(t *testing.T) {
	t.Setenv(storage.LogLevelEnv, "")
	path := writeFile(t, "config.json", `{"workDurationMinutes": `)

	config, err := storage.LoadConfig(path)
	if !errors.Is(err, storage.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if config != model.DefaultConfig() {
		t.Errorf("config = %+v, want defaults", config)
	}
}

func TestLoadConfigLogLevelEnvOverride(t *testing.T) {
	t.Setenv(storage.LogLevelEnv, "warn")
	path := writeFile(t, "config.json", `{"logLevel": "debug"}`)

	config, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", config.LogLevel)
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(storage.ConfigPathEnv, "/from/env.json")

	path, err := storage.ResolveConfigPath("/from/flag.json")
	if err != nil || path != "/from/flag.json" {
		t.Errorf("flag: path, err = %q, %v", path, err)
	}
	path, err = storage.ResolveConfigPath("")
	if err != nil || path != "/from/env.json" {
		t.Errorf("env: path, err = %q, %v", path, err)
	}
}
