package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/models"
)

func TestAlbumCreate_DuplicatePeriod(t *testing.T) {
	db := newTestDB(t)
	albums := NewAlbumRepository(db)

	createAlbum(t, albums, "2025-08", 0)
	err := albums.Create(&models.Album{Name: "again", DatePeriod: "2025-08"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestAlbumListAll_Ordering(t *testing.T) {
	db := newTestDB(t)
	albums := NewAlbumRepository(db)

	second := createAlbum(t, albums, "2025-07", 1)
	first := createAlbum(t, albums, "2025-08", 0)
	third := createAlbum(t, albums, models.UndatedPeriod, 2)

	listed, err := albums.ListAll()
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
	assert.Equal(t, third.ID, listed[2].ID)
}

func TestAlbumGetByDatePeriod(t *testing.T) {
	db := newTestDB(t)
	albums := NewAlbumRepository(db)

	created := createAlbum(t, albums, "2025-08", 0)

	got, err := albums.GetByDatePeriod("2025-08")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = albums.GetByDatePeriod("1999-01")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestAlbumUpdateDisplayOrder(t *testing.T) {
	db := newTestDB(t)
	albums := NewAlbumRepository(db)
	album := createAlbum(t, albums, "2025-08", 0)

	require.NoError(t, albums.UpdateDisplayOrder(album.ID, 5))
	got, err := albums.GetByID(album.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.DisplayOrder)

	err = albums.UpdateDisplayOrder(999999, 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestAlbumSetCoverPhoto(t *testing.T) {
	db := newTestDB(t)
	albums := NewAlbumRepository(db)
	photos := NewPhotoRepository(db)
	album := createAlbum(t, albums, "2025-08", 0)
	photo := createPhoto(t, photos, album.ID, "/pics/a.jpg", nil)

	require.NoError(t, albums.SetCoverPhoto(album.ID, &photo.ID))
	got, err := albums.GetByID(album.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CoverPhotoID)
	assert.Equal(t, photo.ID, *got.CoverPhotoID)

	require.NoError(t, albums.SetCoverPhoto(album.ID, nil))
	got, err = albums.GetByID(album.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CoverPhotoID)
}

func TestAlbumRecountPhotos(t *testing.T) {
	db := newTestDB(t)
	albums := NewAlbumRepository(db)
	photos := NewPhotoRepository(db)
	album := createAlbum(t, albums, "2025-08", 0)

	createPhoto(t, photos, album.ID, "/pics/a.jpg", ts(2025, time.August, 5))
	createPhoto(t, photos, album.ID, "/pics/b.jpg", nil)

	require.NoError(t, albums.RecountPhotos(album.ID))
	got, err := albums.GetByID(album.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.PhotoCount)

	err = albums.RecountPhotos(999999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestAlbumDelete_CascadesToPhotos(t *testing.T) {
	db := newTestDB(t)
	albums := NewAlbumRepository(db)
	photos := NewPhotoRepository(db)
	album := createAlbum(t, albums, "2025-08", 0)
	photo := createPhoto(t, photos, album.ID, "/pics/a.jpg", nil)

	require.NoError(t, albums.Delete(album.ID))

	_, err := albums.GetByID(album.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = photos.GetByID(photo.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = albums.Delete(album.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
