package storage

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mindfulbreak/internal/core/model"
)

const (
	// AppName names the per-user config directory.
	AppName        = "MindfulBreak"
	configFileName = "config.json"

	// ConfigPathEnv overrides the default config location.
	ConfigPathEnv = "MINDFULBREAK_CONFIG"
	// LogLevelEnv overrides the configured log level.
	LogLevelEnv = "MINDFULBREAK_LOG_LEVEL"
)

// ErrInvalidConfig marks a config file that could not be fully applied.
var ErrInvalidConfig = errors.New("invalid config")

// configFile mirrors the on-disk document. JSON is accepted as YAML flow
// syntax, so the same decoder serves both.
type configFile struct {
	WorkDurationMinutes  yaml.Node `yaml:"workDurationMinutes"`
	BreakDurationSeconds yaml.Node `yaml:"breakDurationSeconds"`
	WarningTimeSeconds   yaml.Node `yaml:"warningTimeSeconds"`
	DeclineResetsTimer   yaml.Node `yaml:"declineResetsTimer"`
	LogLevel             yaml.Node `yaml:"logLevel"`
	LogFormat            yaml.Node `yaml:"logFormat"`
	ControlAddress       yaml.Node `yaml:"controlAddress"`
}

// ResolveConfigPath picks the config path: explicit flag, then the
// MINDFULBREAK_CONFIG environment variable, then the user config dir.
func ResolveConfigPath(flagValue string) (string, error) {
	if path := strings.TrimSpace(flagValue); path != "" {
		return path, nil
	}
	if path := strings.TrimSpace(os.Getenv(ConfigPathEnv)); path != "" {
		return path, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName, configFileName), nil
}

// LoadConfig reads the config file at path. A missing file yields defaults
// and no error. Fields that are absent keep their defaults; fields that are
// invalid keep their defaults and are reported in an ErrInvalidConfig error.
// The returned config is always usable.
func LoadConfig(path string) (model.Config, error) {
	config, err := loadConfigFile(path)
	if level := strings.TrimSpace(os.Getenv(LogLevelEnv)); level != "" {
		config.LogLevel = level
	}
	return config, err
}

func loadConfigFile(path string) (model.Config, error) {
	config := model.DefaultConfig()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}
	if len(strings.TrimSpace(string(rawData))) == 0 {
		return config, nil
	}

	var fileData configFile
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	problems := applyConfigFile(&config, fileData)
	if len(problems) > 0 {
		return config, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return config, nil
}

func applyConfigFile(config *model.Config, fileData configFile) []string {
	var problems []string
	positive := func(name string, node yaml.Node, unit time.Duration, target *time.Duration) {
		if node.IsZero() {
			return
		}
		var value int
		if err := node.Decode(&value); err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive integer, got %q", name, node.Value))
			return
		}
		if int64(value) > math.MaxInt64/int64(unit) {
			problems = append(problems, fmt.Sprintf("%s is out of range, got %q", name, node.Value))
			return
		}
		*target = time.Duration(value) * unit
	}
	text := func(node yaml.Node, target *string) {
		if node.IsZero() {
			return
		}
		var value string
		if err := node.Decode(&value); err == nil && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	positive("workDurationMinutes", fileData.WorkDurationMinutes, time.Minute, &config.WorkDuration)
	positive("breakDurationSeconds", fileData.BreakDurationSeconds, time.Second, &config.BreakDuration)
	positive("warningTimeSeconds", fileData.WarningTimeSeconds, time.Second, &config.WarningThreshold)

	if !fileData.DeclineResetsTimer.IsZero() {
		if err := fileData.DeclineResetsTimer.Decode(&config.DeclineResetsTimer); err != nil {
			problems = append(problems, fmt.Sprintf("declineResetsTimer must be a boolean, got %q", fileData.DeclineResetsTimer.Value))
		}
	}

	text(fileData.LogLevel, &config.LogLevel)
	text(fileData.LogFormat, &config.LogFormat)
	text(fileData.ControlAddress, &config.ControlAddress)
	return problems
}
