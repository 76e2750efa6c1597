package storage_test

import (
	"path/filepath"
	"testing"

	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/storage"
)

func TestPreferenceStoreDefaultsWhenMissing(t *testing.T) {
	store, err := storage.OpenPreferenceStore(filepath.Join(t.TempDir(), "prefs.yaml"), nil)
	if err != nil {
		t.Fatalf("OpenPreferenceStore: %v", err)
	}
	if got := store.Preference(); got != model.DefaultPreference {
		t.Errorf("Preference = %q, want %q", got, model.DefaultPreference)
	}
}

func TestPreferenceStoreRoundTripsThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	store, err := storage.OpenPreferenceStore(path, nil)
	if err != nil {
		t.Fatalf("OpenPreferenceStore: %v", err)
	}
	if err := store.SetPreference(model.PreferenceMeme); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}

	reopened, err := storage.OpenPreferenceStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Preference(); got != model.PreferenceMeme {
		t.Errorf("Preference = %q, want %q", got, model.PreferenceMeme)
	}
}

func TestPreferenceStoreRejectsUnknownValue(t *testing.T) {
	store, _ := storage.OpenPreferenceStore("", nil)
	if err := store.SetPreference("podcasts"); err == nil {
		t.Error("SetPreference accepted an unknown preference")
	}
	if got := store.Preference(); got != model.DefaultPreference {
		t.Errorf("Preference = %q, want %q", got, model.DefaultPreference)
	}
}

func TestPreferenceStoreIgnoresUnknownStoredValue(t *testing.T) {
	path := writeFile(t, "prefs.yaml", "content_preference: podcasts\n")
	store, err := storage.OpenPreferenceStore(path, nil)
	if err != nil {
		t.Fatalf("OpenPreferenceStore: %v", err)
	}
	if got := store.Preference(); got != model.DefaultPreference {
		t.Errorf("Preference = %q, want %q", got, model.DefaultPreference)
	}
}

func TestPreferenceStoreAcceptsMenuLabel(t *testing.T) {
	path := writeFile(t, "prefs.yaml", "content_preference: Programming Jokes\n")
	store, err := storage.OpenPreferenceStore(path, nil)
	if err != nil {
		t.Fatalf("OpenPreferenceStore: %v", err)
	}
	if got := store.Preference(); got != model.PreferenceJoke {
		t.Errorf("Preference = %q, want %q", got, model.PreferenceJoke)
	}
}
