package models

// Photo represents a catalogued image file in the database using GORM.
// It corresponds to the 'photos' table. Every photo belongs to exactly one
// album; the album is the lifecycle authority for its photos.
type Photo struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FilePath      string `gorm:"not null;uniqueIndex" json:"file_path"` // absolute path of the original file
	FileName      string `gorm:"not null" json:"file_name"`
	FileSize      int64  `gorm:"not null" json:"file_size"`
	DateTaken     *int64 `gorm:"index" json:"date_taken,omitempty"` // Nullable, Unix timestamp
	DateAdded     int64  `gorm:"not null" json:"date_added"`        // Unix timestamp, set at import
	AlbumID       int64  `gorm:"not null;index" json:"album_id"`
	Width         *int   `gorm:"" json:"width,omitempty"`  // Nullable
	Height        *int   `gorm:"" json:"height,omitempty"` // Nullable
	ThumbnailData []byte `gorm:"" json:"-"`                // Nullable, encoded JPEG blob
	ExifData      []byte `gorm:"" json:"-"`                // Nullable, raw metadata blob
}

// HasThumbnail reports whether an encoded thumbnail is stored for the photo.
func (p *Photo) HasThumbnail() bool {
	return len(p.ThumbnailData) > 0
}

// TableName explicitly sets the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}
