package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/facette/natsort"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/media"
	"github.com/averyhm/photowellbackend/models"
	"github.com/averyhm/photowellbackend/repository"
)

// ImportError records one failed file of an import batch.
type ImportError struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
	Kind     string `json:"kind"`
}

// ImportResult summarizes an import batch. Every submitted file shows up
// either in Photos or in Errors.
type ImportResult struct {
	BatchID   string          `json:"batch_id"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Errors    []ImportError   `json:"errors"`
	NewAlbums []models.Album  `json:"new_albums"`
	Photos    []models.Photo  `json:"photos"`
}

// ImportService is the photo importer: it validates files, extracts
// metadata, resolves the owning album through the album directory, persists
// photo rows and keeps album aggregates consistent.
type ImportService struct {
	db        *gorm.DB
	albums    *AlbumService
	photos    repository.PhotoRepositoryInterface
	extractor media.Extractor
	thumbs    media.ThumbnailGenerator
	prefs     *PreferenceService

	maxFileSize  int64
	thumbMaxSize int
}

func NewImportService(db *gorm.DB, albums *AlbumService, photos repository.PhotoRepositoryInterface, extractor media.Extractor, thumbs media.ThumbnailGenerator, prefs *PreferenceService, maxFileSize int64, thumbMaxSize int) *ImportService {
	return &ImportService{
		db:           db,
		albums:       albums,
		photos:       photos,
		extractor:    extractor,
		thumbs:       thumbs,
		prefs:        prefs,
		maxFileSize:  maxFileSize,
		thumbMaxSize: thumbMaxSize,
	}
}

// ImportPhotos runs the per-file import pipeline over a batch of file paths.
// Files fail independently; a failure is recorded in the result and the
// batch moves on. Only an unreachable persistence layer aborts the whole
// batch with an error. An empty input returns an all-zero result.
func (s *ImportService) ImportPhotos(paths []string) (*ImportResult, error) {
	const op = "photos.import"

	result := &ImportResult{
		BatchID:   uuid.NewString(),
		Total:     len(paths),
		Errors:    []ImportError{},
		NewAlbums: []models.Album{},
		Photos:    []models.Photo{},
	}
	if len(paths) == 0 {
		return result, nil
	}

	// process in natural name order so batches are deterministic regardless
	// of how the caller collected the paths
	sorted := append([]string(nil), paths...)
	natsort.Sort(sorted)

	maxSize := s.prefs.GetInt64(PrefMaxFileSize, s.maxFileSize)
	thumbSize := s.prefs.GetInt(PrefThumbnailMaxSize, s.thumbMaxSize)

	log.Printf("import batch %s: %d file(s)", result.BatchID, len(sorted))

	for _, path := range sorted {
		photo, newAlbum, err := s.importOne(path, maxSize, thumbSize)
		if err != nil {
			if IsKind(err, KindStorage) && !s.storageAlive() {
				return nil, storageErr(op, "persistence layer unreachable, aborting batch", err)
			}
			kind, _ := KindOf(err)
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				FileName: filepath.Base(path),
				Reason:   err.Error(),
				Kind:     kind.String(),
			})
			continue
		}
		result.Succeeded++
		result.Photos = append(result.Photos, *photo)
		if newAlbum != nil {
			result.NewAlbums = append(result.NewAlbums, *newAlbum)
		}
	}

	log.Printf("import batch %s: %d succeeded, %d failed", result.BatchID, result.Succeeded, result.Failed)
	return result, nil
}

// importOne runs the pipeline for a single file: validate, extract
// metadata, resolve album, generate thumbnail, persist, update aggregates.
func (s *ImportService) importOne(path string, maxSize int64, thumbSize int) (*models.Photo, *models.Album, error) {
	const op = "photos.import"

	if !media.IsSupportedImage(path) {
		return nil, nil, invalidInput(op, fmt.Sprintf("unsupported media type: %s", filepath.Ext(path)))
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, &Error{Kind: KindInvalidInput, Op: op, Msg: "file is not readable", Err: err}
	}
	if info.Size() == 0 {
		return nil, nil, invalidInput(op, "file is empty")
	}
	if info.Size() > maxSize {
		return nil, nil, invalidInput(op, fmt.Sprintf("file exceeds maximum size of %d bytes", maxSize))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, &Error{Kind: KindInvalidInput, Op: op, Msg: "could not resolve absolute path", Err: err}
	}
	if _, err := s.photos.GetByPath(absPath); err == nil {
		return nil, nil, conflict(op, "file is already in the catalog", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, storageErr(op, "failed to check for existing photo", err)
	}

	// metadata extraction degrades gracefully: an unreadable file falls back
	// to the filesystem modification time, a readable file without a capture
	// date stays undated
	var takenAt *int64
	meta, err := s.extractor.Extract(absPath)
	if err != nil {
		log.Printf("import: metadata extraction failed for %s, falling back to mtime: %v", absPath, err)
		mtime := info.ModTime().Unix()
		takenAt = &mtime
		meta = &media.Metadata{}
	} else {
		takenAt = meta.TakenAt
	}

	album, created, err := s.albums.GetOrCreateAlbumForDate(takenAt)
	if err != nil {
		return nil, nil, err
	}

	// thumbnail failure is never fatal; the backfill worker retries later
	thumb, err := s.thumbs.Generate(absPath, thumbSize)
	if err != nil {
		log.Printf("import: thumbnail generation failed for %s: %v", absPath, err)
		thumb = nil
	}

	photo := &models.Photo{
		FilePath:      absPath,
		FileName:      filepath.Base(absPath),
		FileSize:      info.Size(),
		DateTaken:     takenAt,
		AlbumID:       album.ID,
		Width:         meta.Width,
		Height:        meta.Height,
		ThumbnailData: thumb,
		ExifData:      meta.Raw,
	}
	// persist and aggregate refresh stand or fall together; a failed
	// recompute must not leave an uncounted row behind
	err = s.db.Transaction(func(tx *gorm.DB) error {
		photos := s.photos.WithTx(tx)
		if err := photos.Create(photo); err != nil {
			return err
		}
		return RecomputeAlbumAggregates(s.albums.albums.WithTx(tx), photos, album.ID)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, nil, conflict(op, "file is already in the catalog", err)
		}
		if _, ok := KindOf(err); ok {
			return nil, nil, err
		}
		return nil, nil, storageErr(op, fmt.Sprintf("failed to persist photo %s", photo.FileName), err)
	}

	if created {
		return photo, album, nil
	}
	return photo, nil, nil
}

// GetPhotosByAlbum returns a page of an album's photos ordered by capture
// timestamp ascending (undated photos last), then add timestamp ascending.
// A limit of 0 applies the default page size of 50.
func (s *ImportService) GetPhotosByAlbum(albumID int64, offset, limit int) ([]models.Photo, error) {
	const op = "photos.list"

	if albumID < 0 {
		return nil, invalidInput(op, "album ID must not be negative")
	}
	if offset < 0 || limit < 0 {
		return nil, invalidInput(op, "offset and limit must not be negative")
	}
	if limit == 0 {
		limit = 50
	}
	photos, err := s.photos.ListByAlbum(albumID, offset, limit)
	if err != nil {
		return nil, storageErr(op, fmt.Sprintf("failed to list photos of album %d", albumID), err)
	}
	return photos, nil
}

// GetPhoto returns a single photo by ID.
func (s *ImportService) GetPhoto(photoID int64) (*models.Photo, error) {
	photo, err := s.photos.GetByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("photos.get", fmt.Sprintf("no photo with ID %d", photoID))
		}
		return nil, storageErr("photos.get", fmt.Sprintf("failed to load photo %d", photoID), err)
	}
	return photo, nil
}

// DeletePhoto removes a photo and refreshes its album's aggregates. Returns
// false, without error, when the photo does not exist.
func (s *ImportService) DeletePhoto(photoID int64) (bool, error) {
	const op = "photos.delete"

	photo, err := s.photos.GetByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, storageErr(op, fmt.Sprintf("failed to load photo %d", photoID), err)
	}

	deleted, err := s.photos.Delete(photoID)
	if err != nil {
		return false, storageErr(op, fmt.Sprintf("failed to delete photo %d", photoID), err)
	}
	if !deleted {
		return false, nil
	}
	if err := RecomputeAlbumAggregates(s.albums.albums, s.photos, photo.AlbumID); err != nil {
		return true, err
	}
	return true, nil
}

// storageAlive pings the shared database handle; a dead handle means a
// per-file storage failure is really a catalog-level one.
func (s *ImportService) storageAlive() bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}
