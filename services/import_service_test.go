package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/media"
	"github.com/averyhm/photowellbackend/models"
	"github.com/averyhm/photowellbackend/repository"
)

// stubExtractor returns canned metadata keyed by base file name.
type stubExtractor struct {
	meta map[string]*media.Metadata
	errs map[string]error
}

func (s *stubExtractor) Extract(filePath string) (*media.Metadata, error) {
	name := filepath.Base(filePath)
	if err, ok := s.errs[name]; ok {
		return nil, err
	}
	if m, ok := s.meta[name]; ok {
		return m, nil
	}
	return &media.Metadata{}, nil
}

// stubThumbnailer returns fixed bytes, or fails for configured names.
type stubThumbnailer struct {
	failFor map[string]bool
	calls   int
}

func (s *stubThumbnailer) Generate(filePath string, maxSize int) ([]byte, error) {
	s.calls++
	if s.failFor[filepath.Base(filePath)] {
		return nil, errors.New("stub thumbnail failure")
	}
	return []byte("thumb-bytes"), nil
}

type importEnv struct {
	*testEnv
	importer  *ImportService
	extractor *stubExtractor
	thumbs    *stubThumbnailer
	dir       string
}

func newImportEnv(t *testing.T) *importEnv {
	t.Helper()

	env := newTestEnv(t)
	extractor := &stubExtractor{meta: map[string]*media.Metadata{}, errs: map[string]error{}}
	thumbs := &stubThumbnailer{failFor: map[string]bool{}}
	importer := NewImportService(env.db, env.albums, env.photos, extractor, thumbs, env.prefs, 50*1024*1024, 300)
	return &importEnv{
		testEnv:   env,
		importer:  importer,
		extractor: extractor,
		thumbs:    thumbs,
		dir:       t.TempDir(),
	}
}

// writeFile drops a dummy file of the given size into the batch directory.
func (e *importEnv) writeFile(t *testing.T, name string, size int) string {
	t.Helper()

	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestImportPhotos_EmptyBatch(t *testing.T) {
	env := newImportEnv(t)

	result, err := env.importer.ImportPhotos(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Photos)
	assert.Empty(t, result.NewAlbums)
	assert.NotEmpty(t, result.BatchID)
}

func TestImportPhotos_GroupsByCaptureMonth(t *testing.T) {
	env := newImportEnv(t)
	env.extractor.meta["a.jpg"] = &media.Metadata{TakenAt: unixTS(2025, time.August, 15)}
	env.extractor.meta["b.jpg"] = &media.Metadata{TakenAt: unixTS(2025, time.August, 20)}
	env.extractor.meta["c.jpg"] = &media.Metadata{} // readable but no capture date

	paths := []string{
		env.writeFile(t, "a.jpg", 100),
		env.writeFile(t, "b.jpg", 100),
		env.writeFile(t, "c.jpg", 100),
	}

	result, err := env.importer.ImportPhotos(paths)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, result.Total, result.Succeeded+result.Failed)
	require.Len(t, result.NewAlbums, 2)

	albums, err := env.albums.ListAlbums()
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, "August 2025", albums[0].Name)
	assert.Equal(t, int64(2), albums[0].PhotoCount)
	assert.Equal(t, DefaultUndatedAlbumName, albums[1].Name)
	assert.Equal(t, int64(1), albums[1].PhotoCount)

	// every imported photo lands in a listed album and each album has a cover
	listed := map[int64]bool{}
	for _, a := range albums {
		listed[a.ID] = true
		require.NotNil(t, a.CoverPhotoID, "album %s should have a cover", a.Name)
	}
	for _, p := range result.Photos {
		assert.True(t, listed[p.AlbumID], "photo %s references unknown album %d", p.FileName, p.AlbumID)
	}
}

func TestImportPhotos_ValidationFailures(t *testing.T) {
	env := newImportEnv(t)

	txt := env.writeFile(t, "notes.txt", 100)
	empty := env.writeFile(t, "empty.jpg", 0)
	ok := env.writeFile(t, "fine.jpg", 100)
	missing := filepath.Join(env.dir, "missing.jpg")

	result, err := env.importer.ImportPhotos([]string{txt, empty, ok, missing})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 3, result.Failed)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, result.Total, result.Succeeded+result.Failed)

	byName := map[string]ImportError{}
	for _, ie := range result.Errors {
		byName[ie.FileName] = ie
	}
	assert.Equal(t, "invalid_input", byName["notes.txt"].Kind)
	assert.Equal(t, "invalid_input", byName["empty.jpg"].Kind)
	assert.Equal(t, "invalid_input", byName["missing.jpg"].Kind)
}

func TestImportPhotos_OversizeFile(t *testing.T) {
	env := newImportEnv(t)
	// a preference override shrinks the limit below the file size
	require.NoError(t, env.prefs.Set(PrefMaxFileSize, 64))

	big := env.writeFile(t, "big.jpg", 128)
	result, err := env.importer.ImportPhotos([]string{big})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "invalid_input", result.Errors[0].Kind)
	assert.Contains(t, result.Errors[0].Reason, "maximum size")
}

func TestImportPhotos_DuplicatePath(t *testing.T) {
	env := newImportEnv(t)

	path := env.writeFile(t, "a.jpg", 100)
	first, err := env.importer.ImportPhotos([]string{path})
	require.NoError(t, err)
	require.Equal(t, 1, first.Succeeded)

	second, err := env.importer.ImportPhotos([]string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Failed)
	require.Len(t, second.Errors, 1)
	assert.Equal(t, "conflict", second.Errors[0].Kind)
}

func TestImportPhotos_ThumbnailFailureIsNonFatal(t *testing.T) {
	env := newImportEnv(t)
	env.thumbs.failFor["a.jpg"] = true

	path := env.writeFile(t, "a.jpg", 100)
	result, err := env.importer.ImportPhotos([]string{path})
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)

	photo, err := env.importer.GetPhoto(result.Photos[0].ID)
	require.NoError(t, err)
	assert.False(t, photo.HasThumbnail())
}

func TestImportPhotos_ExtractionFailureFallsBackToModTime(t *testing.T) {
	env := newImportEnv(t)
	env.extractor.errs["a.jpg"] = errors.New("unreadable metadata")

	path := env.writeFile(t, "a.jpg", 100)
	mtime := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	result, err := env.importer.ImportPhotos([]string{path})
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)

	photo := result.Photos[0]
	require.NotNil(t, photo.DateTaken)
	assert.Equal(t, mtime.Unix(), *photo.DateTaken)

	albums, err := env.albums.ListAlbums()
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "2024-03", albums[0].DatePeriod)
}

func TestImportPhotos_StoresDimensionsAndExif(t *testing.T) {
	env := newImportEnv(t)
	w, h := 4000, 3000
	env.extractor.meta["a.jpg"] = &media.Metadata{
		TakenAt: unixTS(2025, time.August, 15),
		Width:   &w,
		Height:  &h,
		Raw:     []byte(`{"Make":"TestCam"}`),
	}

	path := env.writeFile(t, "a.jpg", 100)
	result, err := env.importer.ImportPhotos([]string{path})
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)

	photo, err := env.importer.GetPhoto(result.Photos[0].ID)
	require.NoError(t, err)
	require.NotNil(t, photo.Width)
	assert.Equal(t, 4000, *photo.Width)
	require.NotNil(t, photo.Height)
	assert.Equal(t, 3000, *photo.Height)
	assert.JSONEq(t, `{"Make":"TestCam"}`, string(photo.ExifData))
	assert.True(t, photo.HasThumbnail())
	assert.Greater(t, photo.DateAdded, int64(0))
}

// brokenCoverRepo fails every cover-candidate scan, forcing the aggregate
// recompute after a persist to error out.
type brokenCoverRepo struct {
	repository.PhotoRepositoryInterface
}

func (r *brokenCoverRepo) WithTx(tx *gorm.DB) repository.PhotoRepositoryInterface {
	return &brokenCoverRepo{r.PhotoRepositoryInterface.WithTx(tx)}
}

func (r *brokenCoverRepo) LatestInAlbum(albumID int64) (*models.Photo, error) {
	return nil, errors.New("cover scan failed")
}

func TestImportPhotos_AggregateFailureRollsBackRow(t *testing.T) {
	env := newTestEnv(t)
	extractor := &stubExtractor{meta: map[string]*media.Metadata{}, errs: map[string]error{}}
	thumbs := &stubThumbnailer{failFor: map[string]bool{}}
	broken := &brokenCoverRepo{env.photos}
	importer := NewImportService(env.db, env.albums, broken, extractor, thumbs, env.prefs, 50*1024*1024, 300)

	path := filepath.Join(t.TempDir(), "a.jpg")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))

	result, err := importer.ImportPhotos([]string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, result.Photos)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "storage", result.Errors[0].Kind)

	// a file reported as failed must not leave a row behind
	_, err = env.photos.GetByPath(path)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGetPhotosByAlbum(t *testing.T) {
	env := newImportEnv(t)

	album, _, err := env.albums.GetOrCreateAlbumForDate(unixTS(2025, time.August, 1))
	require.NoError(t, err)
	undatedPhoto := addPhoto(t, env.testEnv, album.ID, "/pics/undated.jpg", nil)
	late := addPhoto(t, env.testEnv, album.ID, "/pics/late.jpg", unixTS(2025, time.August, 20))
	early := addPhoto(t, env.testEnv, album.ID, "/pics/early.jpg", unixTS(2025, time.August, 5))

	t.Run("orders by capture date with undated last", func(t *testing.T) {
		photos, err := env.importer.GetPhotosByAlbum(album.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, photos, 3)
		assert.Equal(t, early.ID, photos[0].ID)
		assert.Equal(t, late.ID, photos[1].ID)
		assert.Equal(t, undatedPhoto.ID, photos[2].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		photos, err := env.importer.GetPhotosByAlbum(album.ID, 1, 1)
		require.NoError(t, err)
		require.Len(t, photos, 1)
		assert.Equal(t, late.ID, photos[0].ID)
	})

	t.Run("rejects negative arguments", func(t *testing.T) {
		_, err := env.importer.GetPhotosByAlbum(-1, 0, 0)
		assert.True(t, IsKind(err, KindInvalidInput))
		_, err = env.importer.GetPhotosByAlbum(album.ID, -1, 0)
		assert.True(t, IsKind(err, KindInvalidInput))
		_, err = env.importer.GetPhotosByAlbum(album.ID, 0, -5)
		assert.True(t, IsKind(err, KindInvalidInput))
	})

	t.Run("unknown album yields an empty page", func(t *testing.T) {
		photos, err := env.importer.GetPhotosByAlbum(99999, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, photos)
	})
}

func TestDeletePhoto(t *testing.T) {
	env := newImportEnv(t)

	t.Run("missing photo returns false without error", func(t *testing.T) {
		deleted, err := env.importer.DeletePhoto(424242)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("deleting the cover promotes the next photo", func(t *testing.T) {
		album, _, err := env.albums.GetOrCreateAlbumForDate(unixTS(2025, time.August, 1))
		require.NoError(t, err)
		older := addPhoto(t, env.testEnv, album.ID, "/pics/older.jpg", unixTS(2025, time.August, 5))
		newer := addPhoto(t, env.testEnv, album.ID, "/pics/newer.jpg", unixTS(2025, time.August, 20))
		require.NoError(t, RecomputeAlbumAggregates(repository.NewAlbumRepository(env.db), env.photos, album.ID))

		got, err := env.albums.GetAlbum(album.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CoverPhotoID)
		require.Equal(t, newer.ID, *got.CoverPhotoID)

		deleted, err := env.importer.DeletePhoto(newer.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err = env.albums.GetAlbum(album.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.PhotoCount)
		require.NotNil(t, got.CoverPhotoID)
		assert.Equal(t, older.ID, *got.CoverPhotoID)
	})
}
