package models

// UserPreference is a single key-value setting in the database using GORM.
// It corresponds to the 'user_preferences' table. Values are stored as
// serialized JSON so callers can keep structured settings.
type UserPreference struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SettingKey   string `gorm:"not null;uniqueIndex" json:"setting_key"`
	SettingValue string `gorm:"not null" json:"setting_value"`
	UpdatedAt    int64  `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (UserPreference) TableName() string {
	return "user_preferences"
}
