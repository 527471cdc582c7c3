package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/models"
	"github.com/averyhm/photowellbackend/repository"
)

// Preference keys the catalog services read.
const (
	PrefUndatedAlbumName = "albums.undated_name"
	PrefMaxFileSize      = "import.max_file_size"
	PrefThumbnailMaxSize = "thumbnails.max_size"
)

// PreferenceService reads and writes user settings stored as JSON values.
// Missing or malformed values fall back to the caller-supplied default.
type PreferenceService struct {
	prefs repository.PreferenceRepositoryInterface
}

func NewPreferenceService(prefs repository.PreferenceRepositoryInterface) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

// GetString returns the string stored under key, or def when absent or
// unreadable.
func (s *PreferenceService) GetString(key, def string) string {
	var out string
	if s.unmarshal(key, &out) {
		return out
	}
	return def
}

// GetInt returns the integer stored under key, or def when absent or
// unreadable.
func (s *PreferenceService) GetInt(key string, def int) int {
	var out int
	if s.unmarshal(key, &out) {
		return out
	}
	return def
}

// GetInt64 returns the 64-bit integer stored under key, or def when absent
// or unreadable.
func (s *PreferenceService) GetInt64(key string, def int64) int64 {
	var out int64
	if s.unmarshal(key, &out) {
		return out
	}
	return def
}

// GetBool returns the boolean stored under key, or def when absent or
// unreadable.
func (s *PreferenceService) GetBool(key string, def bool) bool {
	var out bool
	if s.unmarshal(key, &out) {
		return out
	}
	return def
}

// Set serializes value to JSON and upserts it under key.
func (s *PreferenceService) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return invalidInput("preferences.set", fmt.Sprintf("value for %s is not serializable: %v", key, err))
	}
	if err := s.prefs.Set(key, string(raw)); err != nil {
		return storageErr("preferences.set", fmt.Sprintf("failed to store %s", key), err)
	}
	return nil
}

// SetRaw stores an already-serialized JSON value under key.
func (s *PreferenceService) SetRaw(key string, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return invalidInput("preferences.set", fmt.Sprintf("value for %s is not valid JSON", key))
	}
	if err := s.prefs.Set(key, string(raw)); err != nil {
		return storageErr("preferences.set", fmt.Sprintf("failed to store %s", key), err)
	}
	return nil
}

// GetRaw returns the serialized value stored under key.
func (s *PreferenceService) GetRaw(key string) (json.RawMessage, error) {
	pref, err := s.prefs.Get(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("preferences.get", fmt.Sprintf("no preference %s", key))
		}
		return nil, storageErr("preferences.get", fmt.Sprintf("failed to read %s", key), err)
	}
	return json.RawMessage(pref.SettingValue), nil
}

// List returns every stored preference.
func (s *PreferenceService) List() ([]models.UserPreference, error) {
	prefs, err := s.prefs.List()
	if err != nil {
		return nil, storageErr("preferences.list", "failed to list preferences", err)
	}
	return prefs, nil
}

func (s *PreferenceService) unmarshal(key string, out interface{}) bool {
	pref, err := s.prefs.Get(key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("preferences: failed to read %s, using default: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(pref.SettingValue), out); err != nil {
		log.Printf("preferences: malformed value for %s, using default: %v", key, err)
		return false
	}
	return true
}
