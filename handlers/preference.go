package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/averyhm/photowellbackend/services"
)

// PreferenceHandler exposes the key-value preference store over HTTP.
type PreferenceHandler struct {
	Prefs *services.PreferenceService
}

func (ph *PreferenceHandler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := ph.Prefs.List()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (ph *PreferenceHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	raw, err := ph.Prefs.GetRaw(key)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"setting_key": key, "setting_value": raw})
}

func (ph *PreferenceHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "invalid request body: "+err.Error())
		return
	}

	if err := ph.Prefs.SetRaw(key, req.Value); err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "preference saved"})
}
