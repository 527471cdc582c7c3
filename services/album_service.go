package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/averyhm/photowellbackend/models"
	"github.com/averyhm/photowellbackend/repository"
)

// DefaultUndatedAlbumName is used for the catch-all album unless the user
// overrides it via preferences.
const DefaultUndatedAlbumName = "Undated Photos"

// AlbumService is the album directory: it owns album creation, date-period
// lookup, display ordering, reordering and delete/merge with photo
// reassignment. All mutations go through the repositories; multi-step
// mutations run in a single transaction.
type AlbumService struct {
	db      *gorm.DB
	albums  repository.AlbumRepositoryInterface
	photos  repository.PhotoRepositoryInterface
	prefs   *PreferenceService
	minYear int
}

func NewAlbumService(db *gorm.DB, albums repository.AlbumRepositoryInterface, photos repository.PhotoRepositoryInterface, prefs *PreferenceService, minYear int) *AlbumService {
	return &AlbumService{db: db, albums: albums, photos: photos, prefs: prefs, minYear: minYear}
}

// withTx returns a copy of the service bound to the given transaction.
func (s *AlbumService) withTx(tx *gorm.DB) *AlbumService {
	return &AlbumService{
		db:      tx,
		albums:  s.albums.WithTx(tx),
		photos:  s.photos.WithTx(tx),
		prefs:   s.prefs,
		minYear: s.minYear,
	}
}

// ListAlbums returns every album ordered by display order ascending, ties
// broken by creation time descending. An empty catalog yields an empty slice.
func (s *AlbumService) ListAlbums() ([]models.Album, error) {
	albums, err := s.albums.ListAll()
	if err != nil {
		return nil, storageErr("albums.list", "failed to list albums", err)
	}
	return albums, nil
}

// GetAlbum returns a single album by ID.
func (s *AlbumService) GetAlbum(albumID int64) (*models.Album, error) {
	album, err := s.albums.GetByID(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("albums.get", fmt.Sprintf("no album with ID %d", albumID))
		}
		return nil, storageErr("albums.get", fmt.Sprintf("failed to load album %d", albumID), err)
	}
	return album, nil
}

// CreateAlbum creates an album for a date period. The new album is slotted
// so dated albums read most-recent-first and the undated album trails them.
func (s *AlbumService) CreateAlbum(datePeriod, name string) (*models.Album, error) {
	const op = "albums.create"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput(op, "album name must not be empty")
	}
	if err := validatePeriod(datePeriod, s.minYear); err != nil {
		return nil, invalidInput(op, err.Error())
	}

	order, err := s.insertionOrder(datePeriod)
	if err != nil {
		return nil, err
	}

	album := &models.Album{
		Name:         name,
		DatePeriod:   datePeriod,
		DisplayOrder: order,
	}
	if err := s.albums.Create(album); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, conflict(op, fmt.Sprintf("an album for period %s already exists", datePeriod), err)
		}
		return nil, storageErr(op, fmt.Sprintf("failed to create album for period %s", datePeriod), err)
	}
	return album, nil
}

// insertionOrder picks the display order for a new album: a dated album goes
// immediately before the first existing dated album with an earlier period,
// otherwise after the last dated album; the undated album always goes after
// every dated one. A dated album appended past the undated album pushes it
// back so it stays last. Existing albums are not otherwise renumbered;
// ReorderAlbums restores density.
func (s *AlbumService) insertionOrder(datePeriod string) (int64, error) {
	const op = "albums.create"

	existing, err := s.albums.ListAll()
	if err != nil {
		return 0, storageErr(op, "failed to list albums for ordering", err)
	}

	var dated []models.Album
	var undated *models.Album
	for i, a := range existing {
		if a.DatePeriod == models.UndatedPeriod {
			undated = &existing[i]
		} else {
			dated = append(dated, a)
		}
	}
	sort.Slice(dated, func(i, j int) bool {
		return dated[j].DatePeriod < dated[i].DatePeriod
	})

	if datePeriod == models.UndatedPeriod {
		if len(dated) == 0 {
			return 0, nil
		}
		return dated[len(dated)-1].DisplayOrder + 1, nil
	}

	for _, a := range dated {
		if periodBefore(a.DatePeriod, datePeriod) {
			return a.DisplayOrder, nil
		}
	}

	var order int64
	if len(dated) > 0 {
		order = dated[len(dated)-1].DisplayOrder + 1
	}
	if undated != nil && undated.DisplayOrder <= order {
		if err := s.albums.UpdateDisplayOrder(undated.ID, order+1); err != nil {
			return 0, storageErr(op, "failed to keep the undated album last", err)
		}
	}
	return order, nil
}

// GetOrCreateAlbumForDate resolves the album owning a capture timestamp's
// date period, creating it with a generated name if needed. Concurrent calls
// for the same missing period contend on the date_period uniqueness
// constraint; the loser re-fetches the winner's row. The second return value
// reports whether a new album was created.
func (s *AlbumService) GetOrCreateAlbumForDate(takenAt *int64) (*models.Album, bool, error) {
	const op = "albums.resolve"

	period := periodForTime(takenAt, s.minYear)
	album, err := s.albums.GetByDatePeriod(period)
	if err == nil {
		return album, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, storageErr(op, fmt.Sprintf("failed to look up period %s", period), err)
	}

	undatedName := s.prefs.GetString(PrefUndatedAlbumName, DefaultUndatedAlbumName)
	album, err = s.CreateAlbum(period, periodDisplayName(period, undatedName))
	if err == nil {
		return album, true, nil
	}
	if IsKind(err, KindConflict) {
		// lost a creation race; the winner's row exists now
		album, ferr := s.albums.GetByDatePeriod(period)
		if ferr != nil {
			return nil, false, storageErr(op, fmt.Sprintf("failed to re-fetch period %s after conflict", period), ferr)
		}
		return album, false, nil
	}
	return nil, false, err
}

// UpdateAlbumOrder sets a single album's display order.
func (s *AlbumService) UpdateAlbumOrder(albumID, newOrder int64) error {
	const op = "albums.update_order"

	if newOrder < 0 {
		return invalidInput(op, "display order must not be negative")
	}
	if err := s.albums.UpdateDisplayOrder(albumID, newOrder); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(op, fmt.Sprintf("no album with ID %d", albumID))
		}
		return storageErr(op, fmt.Sprintf("failed to update order of album %d", albumID), err)
	}
	return nil
}

// ReorderAlbums assigns display orders 0..n-1 to the given albums in one
// transaction. Any unknown ID aborts the whole operation and leaves the
// prior order untouched. An empty input is a no-op.
func (s *AlbumService) ReorderAlbums(orderedIDs []int64) error {
	const op = "albums.reorder"

	if len(orderedIDs) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		albums := s.albums.WithTx(tx)
		for i, id := range orderedIDs {
			if err := albums.UpdateDisplayOrder(id, int64(i)); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound(op, fmt.Sprintf("no album with ID %d", id))
				}
				return storageErr(op, fmt.Sprintf("failed to reorder album %d", id), err)
			}
		}
		return nil
	})
}

// DeleteAlbum removes an album. Photos it still holds are reassigned to
// targetAlbumID when given, otherwise to the lazily created undated album;
// deleting the undated album itself without a target cascades its photos
// away. Reassignment, deletion and target aggregate recompute run in one
// transaction.
func (s *AlbumService) DeleteAlbum(albumID int64, targetAlbumID *int64) error {
	const op = "albums.delete"

	album, err := s.GetAlbum(albumID)
	if err != nil {
		return err
	}
	count, err := s.photos.CountByAlbum(albumID)
	if err != nil {
		return storageErr(op, fmt.Sprintf("failed to count photos of album %d", albumID), err)
	}

	var target *models.Album
	if count > 0 && targetAlbumID != nil {
		if *targetAlbumID == albumID {
			return invalidInput(op, "target album must differ from the album being deleted")
		}
		if target, err = s.GetAlbum(*targetAlbumID); err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		albums := s.albums.WithTx(tx)
		photos := s.photos.WithTx(tx)

		// the default target is created inside the transaction so a failed
		// delete does not leave a fresh undated album behind
		if target == nil && count > 0 && !album.IsUndated() {
			var err error
			if target, _, err = s.withTx(tx).GetOrCreateAlbumForDate(nil); err != nil {
				return err
			}
		}

		if target != nil {
			if _, err := photos.ReassignAlbum(albumID, target.ID); err != nil {
				return storageErr(op, fmt.Sprintf("failed to reassign photos of album %d", albumID), err)
			}
		}
		if err := albums.Delete(albumID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(op, fmt.Sprintf("no album with ID %d", albumID))
			}
			return storageErr(op, fmt.Sprintf("failed to delete album %d", albumID), err)
		}
		if target != nil {
			return RecomputeAlbumAggregates(albums, photos, target.ID)
		}
		return nil
	})
}

// MergeAlbums moves every photo from the source album into the target,
// refreshes the target's aggregates and deletes the source, all in one
// transaction.
func (s *AlbumService) MergeAlbums(sourceID, targetID int64) error {
	const op = "albums.merge"

	if sourceID == targetID {
		return invalidInput(op, "cannot merge an album into itself")
	}
	if _, err := s.GetAlbum(sourceID); err != nil {
		return err
	}
	if _, err := s.GetAlbum(targetID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		albums := s.albums.WithTx(tx)
		photos := s.photos.WithTx(tx)

		if _, err := photos.ReassignAlbum(sourceID, targetID); err != nil {
			return storageErr(op, fmt.Sprintf("failed to move photos from album %d", sourceID), err)
		}
		if err := albums.Delete(sourceID); err != nil {
			return storageErr(op, fmt.Sprintf("failed to delete merged album %d", sourceID), err)
		}
		return RecomputeAlbumAggregates(albums, photos, targetID)
	})
}
