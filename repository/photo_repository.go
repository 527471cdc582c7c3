package repository

import (
	"fmt"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/models"
)

var photoColumns = []string{
	"id", "file_path", "file_name", "file_size", "date_taken", "date_added",
	"album_id", "width", "height", "thumbnail_data", "exif_data",
}

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *PhotoRepository) WithTx(tx *gorm.DB) PhotoRepositoryInterface {
	return &PhotoRepository{DB: tx}
}

// Create inserts a new photo record
func (r *PhotoRepository) Create(photo *models.Photo) error {
	if photo.DateAdded == 0 {
		photo.DateAdded = time.Now().Unix()
	}
	photo.FilePath = filepath.ToSlash(photo.FilePath)

	err := r.DB.Create(photo).Error
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create photo %s: %w", photo.FileName, err)
	}
	return nil
}

// GetByID retrieves a photo by its ID
func (r *PhotoRepository) GetByID(id int64) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.First(&photo, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by ID %d: %w", id, err)
	}
	return &photo, nil
}

// GetByPath retrieves a photo by its unique file path
func (r *PhotoRepository) GetByPath(filePath string) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.Where("file_path = ?", filepath.ToSlash(filePath)).First(&photo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by path %s: %w", filePath, err)
	}
	return &photo, nil
}

// ListByAlbum returns a page of an album's photos ordered by capture
// timestamp ascending with undated photos last, then by add timestamp
func (r *PhotoRepository) ListByAlbum(albumID int64, offset, limit int) ([]models.Photo, error) {
	queryBuilder := psql.Select(photoColumns...).
		From("photos").
		Where(sq.Eq{"album_id": albumID}).
		OrderBy("date_taken IS NULL", "date_taken ASC", "date_added ASC", "id ASC").
		Offset(uint64(offset))
	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListByAlbum: %w", err)
	}

	photos := []models.Photo{}
	if err := r.DB.Raw(sqlStr, args...).Scan(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos for album ID %d: %w", albumID, err)
	}
	return photos, nil
}

// CountByAlbum counts the photos referencing an album
func (r *PhotoRepository) CountByAlbum(albumID int64) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Photo{}).Where("album_id = ?", albumID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count photos for album ID %d: %w", albumID, err)
	}
	return count, nil
}

// LatestInAlbum returns the photo with the latest capture timestamp, ties
// broken by latest add timestamp; photos with a capture date win over
// undated ones. Returns nil without error when the album is empty.
func (r *PhotoRepository) LatestInAlbum(albumID int64) (*models.Photo, error) {
	queryBuilder := psql.Select(photoColumns...).
		From("photos").
		Where(sq.Eq{"album_id": albumID}).
		OrderBy("date_taken IS NULL", "date_taken DESC", "date_added DESC", "id DESC").
		Limit(1)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for LatestInAlbum: %w", err)
	}

	var photos []models.Photo
	if err := r.DB.Raw(sqlStr, args...).Scan(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to query latest photo for album ID %d: %w", albumID, err)
	}
	if len(photos) == 0 {
		return nil, nil
	}
	return &photos[0], nil
}

// ReassignAlbum moves every photo of one album to another and returns the
// number of rows moved
func (r *PhotoRepository) ReassignAlbum(fromAlbumID, toAlbumID int64) (int64, error) {
	result := r.DB.Model(&models.Photo{}).Where("album_id = ?", fromAlbumID).
		Update("album_id", toAlbumID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reassign photos from album %d to %d: %w", fromAlbumID, toAlbumID, result.Error)
	}
	return result.RowsAffected, nil
}

// UpdateThumbnail stores the encoded thumbnail blob for a photo
func (r *PhotoRepository) UpdateThumbnail(photoID int64, data []byte) error {
	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).
		Update("thumbnail_data", data)
	if result.Error != nil {
		return fmt.Errorf("failed to update thumbnail for photo ID %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListMissingThumbnails returns photos persisted without thumbnail data
func (r *PhotoRepository) ListMissingThumbnails() ([]models.Photo, error) {
	var photos []models.Photo
	err := r.DB.Where("thumbnail_data IS NULL OR length(thumbnail_data) = 0").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos missing thumbnails: %w", err)
	}
	return photos, nil
}

// Delete removes a photo row by its ID. Returns false when no such photo
// exists; that is not an error.
func (r *PhotoRepository) Delete(id int64) (bool, error) {
	result := r.DB.Delete(&models.Photo{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete photo ID %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
