package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"mindfulbreak/internal/core/model"
)

const preferencesFileName = "preferences.yaml"

type yamlPreferences struct {
	ContentPreference string `yaml:"content_preference"`
}

// PreferenceStore keeps the user's content preference in a YAML file.
// The presentation layer writes it; the scheduler only reads it.
type PreferenceStore struct {
	mu         sync.RWMutex
	path       string
	preference model.ContentPreference
	logger     logrus.FieldLogger
}

// DefaultPreferencesPath returns the per-user preferences file location.
func DefaultPreferencesPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName, preferencesFileName), nil
}

// OpenPreferenceStore loads the stored preference from path. A missing file
// or an unknown stored value yields model.DefaultPreference; read and parse
// failures are returned alongside a usable store.
func OpenPreferenceStore(path string, logger logrus.FieldLogger) (*PreferenceStore, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	store := &PreferenceStore{
		path:       path,
		preference: model.DefaultPreference,
		logger:     logger.WithField("component", "preferences"),
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return store, fmt.Errorf("read preferences file: %w", err)
	}

	var fileData yamlPreferences
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return store, fmt.Errorf("parse preferences yaml: %w", err)
	}
	if fileData.ContentPreference == "" {
		return store, nil
	}
	preference, err := model.ParsePreference(fileData.ContentPreference)
	if err != nil {
		store.logger.WithError(err).Warn("ignoring stored preference")
		return store, nil
	}
	store.preference = preference
	return store, nil
}

// Preference returns the current preference.
func (store *PreferenceStore) Preference() model.ContentPreference {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.preference
}

// SetPreference updates the preference and persists it. The in-memory value
// changes even when the write fails.
func (store *PreferenceStore) SetPreference(preference model.ContentPreference) error {
	if _, err := model.ParsePreference(string(preference)); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.preference = preference
	if err := store.saveLocked(); err != nil {
		return err
	}
	store.logger.WithField("preference", preference).Info("preference saved")
	return nil
}

func (store *PreferenceStore) saveLocked() error {
	if store.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(yamlPreferences{ContentPreference: string(store.preference)})
	if err != nil {
		return fmt.Errorf("marshal preferences yaml: %w", err)
	}
	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write preferences file: %w", err)
	}
	return nil
}
