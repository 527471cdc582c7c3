package models

// UndatedPeriod is the sentinel date period for photos without a usable
// capture timestamp.
const UndatedPeriod = "undated"

// Album represents a date-period bucket of photos in the database using GORM.
// It corresponds to the 'albums' table.
type Album struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	DatePeriod   string `gorm:"not null;uniqueIndex" json:"date_period"` // "YYYY-MM" or "undated"
	DisplayOrder int64  `gorm:"not null;default:0;index" json:"display_order"`
	PhotoCount   int64  `gorm:"not null;default:0" json:"photo_count"`
	CoverPhotoID *int64 `gorm:"" json:"cover_photo_id,omitempty"` // Nullable
	CreatedAt    int64  `gorm:"not null" json:"created_at"`       // Unix timestamp
	UpdatedAt    int64  `gorm:"not null" json:"updated_at"`       // Unix timestamp

	// Relationships
	Photos []Photo `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

// IsUndated reports whether this is the catch-all album for photos with no
// derived capture date.
func (a *Album) IsUndated() bool {
	return a.DatePeriod == UndatedPeriod
}

// TableName explicitly sets the table name for GORM.
func (Album) TableName() string {
	return "albums"
}
