package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/averyhm/photowellbackend/services"
	"github.com/averyhm/photowellbackend/workers"
)

// PhotoHandler exposes the photo importer operations over HTTP.
type PhotoHandler struct {
	Importer *services.ImportService
	Backfill *workers.ThumbnailBackfiller
}

func (ph *PhotoHandler) ImportPhotos(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paths []string `json:"paths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "invalid request body: "+err.Error())
		return
	}

	result, err := ph.Importer.ImportPhotos(req.Paths)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (ph *PhotoHandler) ListAlbumPhotos(w http.ResponseWriter, r *http.Request) {
	albumID, err := strconv.ParseInt(chi.URLParam(r, "album_id"), 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "album_id must be an integer")
		return
	}

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	photos, serr := ph.Importer.GetPhotosByAlbum(albumID, offset, limit)
	if serr != nil {
		WriteServiceError(w, serr)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (ph *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := strconv.ParseInt(chi.URLParam(r, "photo_id"), 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "photo_id must be an integer")
		return
	}

	deleted, serr := ph.Importer.DeletePhoto(photoID)
	if serr != nil {
		WriteServiceError(w, serr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// ServeThumbnail streams the stored thumbnail blob for a photo.
func (ph *PhotoHandler) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	photoID, err := strconv.ParseInt(chi.URLParam(r, "photo_id"), 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "photo_id must be an integer")
		return
	}

	photo, serr := ph.Importer.GetPhoto(photoID)
	if serr != nil {
		WriteServiceError(w, serr)
		return
	}
	if !photo.HasThumbnail() {
		WriteAPIError(w, http.StatusNotFound, "not_found", "photo has no thumbnail")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	_, _ = w.Write(photo.ThumbnailData)
}

// RescanThumbnails queues backfill jobs for every photo missing a thumbnail.
func (ph *PhotoHandler) RescanThumbnails(w http.ResponseWriter, r *http.Request) {
	queued, err := ph.Backfill.QueueMissing()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "storage", err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"queued": queued})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
