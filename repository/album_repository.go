package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// AlbumRepository handles database operations for Album entities
type AlbumRepository struct {
	DB *gorm.DB
}

// NewAlbumRepository creates a new instance of AlbumRepository
func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{DB: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *AlbumRepository) WithTx(tx *gorm.DB) AlbumRepositoryInterface {
	return &AlbumRepository{DB: tx}
}

// Create creates a new album record in the database
func (r *AlbumRepository) Create(album *models.Album) error {
	now := time.Now().Unix()
	if album.CreatedAt == 0 {
		album.CreatedAt = now
	}
	if album.UpdatedAt == 0 {
		album.UpdatedAt = now
	}

	err := r.DB.Create(album).Error
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create album %s: %w", album.Name, err)
	}
	return nil
}

// ListAll retrieves every album ordered for the main view: display order
// ascending, ties broken by creation time descending
func (r *AlbumRepository) ListAll() ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Order("display_order ASC, created_at DESC, id DESC").Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// GetByID retrieves an album by its ID
func (r *AlbumRepository) GetByID(id int64) (*models.Album, error) {
	var album models.Album
	err := r.DB.First(&album, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

// GetByDatePeriod retrieves the album owning a date period, if any
func (r *AlbumRepository) GetByDatePeriod(period string) (*models.Album, error) {
	var album models.Album
	err := r.DB.Where("date_period = ?", period).First(&album).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album by date period %s: %w", period, err)
	}
	return &album, nil
}

// UpdateDisplayOrder sets an album's position in the main listing
func (r *AlbumRepository) UpdateDisplayOrder(albumID, displayOrder int64) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(map[string]interface{}{
		"display_order": displayOrder,
		"updated_at":    now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update display order for album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetCoverPhoto updates the album's cover reference; nil clears it
func (r *AlbumRepository) SetCoverPhoto(albumID int64, photoID *int64) error {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"cover_photo_id": photoID,
		"updated_at":     now,
	}
	if photoID == nil {
		updates["cover_photo_id"] = gorm.Expr("NULL")
	}
	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set cover photo for album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecountPhotos rewrites the album's cached photo count from the photos
// table in a single statement
func (r *AlbumRepository) RecountPhotos(albumID int64) error {
	now := time.Now().Unix()
	queryBuilder := psql.Update("albums").
		Set("photo_count", sq.Expr("(SELECT COUNT(*) FROM photos WHERE photos.album_id = albums.id)")).
		Set("updated_at", now).
		Where(sq.Eq{"id": albumID})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL for RecountPhotos: %w", err)
	}

	result := r.DB.Exec(sqlStr, args...)
	if result.Error != nil {
		return fmt.Errorf("failed to recount photos for album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an album row by its ID. Photos still referencing the album
// are removed by the ON DELETE CASCADE constraint.
func (r *AlbumRepository) Delete(id int64) error {
	result := r.DB.Delete(&models.Album{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete album ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
