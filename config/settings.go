package config

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

const settingsKey = "settings"

// SavedSettings represents the user settings stored on disk
type SavedSettings struct {
	PlayerName    string `json:"playerName"`
	ServerAddress string `json:"serverAddress"`
	Muted         bool   `json:"muted"`
}

// SettingsStore persists SavedSettings between runs.
type SettingsStore struct {
	m *gdata.Manager
}

// OpenSettings opens the per-user data directory for appName.
func OpenSettings(appName string) (*SettingsStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return &SettingsStore{m: m}, nil
}

// Load returns the saved settings, or nil when nothing was saved yet.
func (s *SettingsStore) Load() (*SavedSettings, error) {
	if s == nil || s.m == nil {
		return nil, nil
	}

	data, err := s.m.LoadItem(settingsKey)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &settings, nil
}

func (s *SettingsStore) Save(settings *SavedSettings) error {
	if s == nil || s.m == nil {
		return nil
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	if err := s.m.SaveItem(settingsKey, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// ApplySaved copies saved values over the flag defaults the user did not
// set explicitly.
func ApplySaved(saved *SavedSettings, name, address *string, explicit map[string]bool) {
	if saved == nil {
		return
	}
	if saved.PlayerName != "" && !explicit["name"] {
		*name = saved.PlayerName
	}
	if saved.ServerAddress != "" && !explicit["addr"] {
		*address = saved.ServerAddress
	}
	if saved.Muted {
		Audio.Muted = true
	}
	log.Printf("[config] restored saved settings")
}
