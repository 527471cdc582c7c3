package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/averyhm/photowellbackend/services"
)

// AlbumHandler exposes the album directory operations over HTTP.
type AlbumHandler struct {
	Albums *services.AlbumService
}

func (ah *AlbumHandler) albumIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "album_id"), 10, 64)
	return id, err == nil
}

func (ah *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := ah.Albums.ListAlbums()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (ah *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DatePeriod string `json:"date_period"`
		Name       string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "invalid request body: "+err.Error())
		return
	}

	album, err := ah.Albums.CreateAlbum(req.DatePeriod, req.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (ah *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, ok := ah.albumIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "album_id must be an integer")
		return
	}

	album, err := ah.Albums.GetAlbum(albumID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (ah *AlbumHandler) UpdateAlbumOrder(w http.ResponseWriter, r *http.Request) {
	albumID, ok := ah.albumIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "album_id must be an integer")
		return
	}

	var req struct {
		DisplayOrder int64 `json:"display_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "invalid request body: "+err.Error())
		return
	}

	if err := ah.Albums.UpdateAlbumOrder(albumID, req.DisplayOrder); err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "display order updated"})
}

// ReorderAlbums applies a full drag-and-drop ordering in one transaction.
func (ah *AlbumHandler) ReorderAlbums(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderedIDs []int64 `json:"ordered_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "invalid request body: "+err.Error())
		return
	}

	if err := ah.Albums.ReorderAlbums(req.OrderedIDs); err != nil {
		WriteServiceError(w, err)
		return
	}

	albums, err := ah.Albums.ListAlbums()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (ah *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	albumID, ok := ah.albumIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "album_id must be an integer")
		return
	}

	var target *int64
	if raw := r.URL.Query().Get("target_album_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_input", "target_album_id must be an integer")
			return
		}
		target = &id
	}

	if err := ah.Albums.DeleteAlbum(albumID, target); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ah *AlbumHandler) MergeAlbums(w http.ResponseWriter, r *http.Request) {
	sourceID, ok := ah.albumIDParam(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "album_id must be an integer")
		return
	}

	var req struct {
		TargetAlbumID int64 `json:"target_album_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "invalid request body: "+err.Error())
		return
	}

	if err := ah.Albums.MergeAlbums(sourceID, req.TargetAlbumID); err != nil {
		WriteServiceError(w, err)
		return
	}

	album, err := ah.Albums.GetAlbum(req.TargetAlbumID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}
