package repository

import (
	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/models"
)

// AlbumRepositoryInterface defines the methods for album data operations
type AlbumRepositoryInterface interface {
	WithTx(tx *gorm.DB) AlbumRepositoryInterface
	Create(album *models.Album) error
	ListAll() ([]models.Album, error)
	GetByID(id int64) (*models.Album, error)
	GetByDatePeriod(period string) (*models.Album, error)
	UpdateDisplayOrder(albumID, displayOrder int64) error
	SetCoverPhoto(albumID int64, photoID *int64) error
	RecountPhotos(albumID int64) error
	Delete(id int64) error
}

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	WithTx(tx *gorm.DB) PhotoRepositoryInterface
	Create(photo *models.Photo) error
	GetByID(id int64) (*models.Photo, error)
	GetByPath(filePath string) (*models.Photo, error)
	ListByAlbum(albumID int64, offset, limit int) ([]models.Photo, error)
	CountByAlbum(albumID int64) (int64, error)
	LatestInAlbum(albumID int64) (*models.Photo, error)
	ReassignAlbum(fromAlbumID, toAlbumID int64) (int64, error)
	UpdateThumbnail(photoID int64, data []byte) error
	ListMissingThumbnails() ([]models.Photo, error)
	Delete(id int64) (bool, error)
}

// PreferenceRepositoryInterface defines the methods for user preference data
// operations
type PreferenceRepositoryInterface interface {
	Get(key string) (*models.UserPreference, error)
	Set(key, value string) error
	List() ([]models.UserPreference, error)
}
