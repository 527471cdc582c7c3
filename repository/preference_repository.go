package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/averyhm/photowellbackend/models"
)

// PreferenceRepository handles database operations for UserPreference entities
type PreferenceRepository struct {
	DB *gorm.DB
}

// NewPreferenceRepository creates a new instance of PreferenceRepository
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

// Get retrieves a preference by its key
func (r *PreferenceRepository) Get(key string) (*models.UserPreference, error) {
	var pref models.UserPreference
	err := r.DB.Where("setting_key = ?", key).First(&pref).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return &pref, nil
}

// Set inserts or updates a preference value
func (r *PreferenceRepository) Set(key, value string) error {
	pref := models.UserPreference{
		SettingKey:   key,
		SettingValue: value,
		UpdatedAt:    time.Now().Unix(),
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}

// List retrieves every stored preference
func (r *PreferenceRepository) List() ([]models.UserPreference, error) {
	var prefs []models.UserPreference
	err := r.DB.Order("setting_key ASC").Find(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return prefs, nil
}
