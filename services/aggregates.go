package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/repository"
)

// Aggregate consistency helpers shared by the album directory and the photo
// importer. Both are idempotent and safe to call redundantly; they take
// repository interfaces so they can run against a transaction-bound copy.

// RecomputePhotoCount rewrites the album's cached photo count from the rows
// that actually reference it.
func RecomputePhotoCount(albums repository.AlbumRepositoryInterface, albumID int64) error {
	if err := albums.RecountPhotos(albumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("albums.recount", fmt.Sprintf("no album with ID %d", albumID))
		}
		return storageErr("albums.recount", fmt.Sprintf("failed to recount album %d", albumID), err)
	}
	return nil
}

// RecomputeCover ensures the album's cover reference points at one of its own
// photos. A valid existing cover is kept; a missing or foreign one is
// replaced by the photo with the latest capture timestamp (ties broken by
// latest add timestamp), or cleared when the album is empty.
func RecomputeCover(albums repository.AlbumRepositoryInterface, photos repository.PhotoRepositoryInterface, albumID int64) error {
	album, err := albums.GetByID(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("albums.recover", fmt.Sprintf("no album with ID %d", albumID))
		}
		return storageErr("albums.recover", fmt.Sprintf("failed to load album %d", albumID), err)
	}

	if album.CoverPhotoID != nil {
		cover, err := photos.GetByID(*album.CoverPhotoID)
		if err == nil && cover.AlbumID == albumID {
			return nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr("albums.recover", fmt.Sprintf("failed to load cover of album %d", albumID), err)
		}
	}

	latest, err := photos.LatestInAlbum(albumID)
	if err != nil {
		return storageErr("albums.recover", fmt.Sprintf("failed to pick cover for album %d", albumID), err)
	}

	var coverID *int64
	if latest != nil {
		coverID = &latest.ID
	} else if album.CoverPhotoID == nil {
		return nil
	}

	if err := albums.SetCoverPhoto(albumID, coverID); err != nil {
		return storageErr("albums.recover", fmt.Sprintf("failed to set cover of album %d", albumID), err)
	}
	return nil
}

// RecomputeAlbumAggregates refreshes both the photo count and the cover
// reference of an album.
func RecomputeAlbumAggregates(albums repository.AlbumRepositoryInterface, photos repository.PhotoRepositoryInterface, albumID int64) error {
	if err := RecomputePhotoCount(albums, albumID); err != nil {
		return err
	}
	return RecomputeCover(albums, photos, albumID)
}
