package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/averyhm/photowellbackend/services"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// WriteServiceError maps a service error kind to an HTTP status and writes
// the standardized envelope.
func WriteServiceError(w http.ResponseWriter, err error) {
	kind, ok := services.KindOf(err)
	if !ok {
		log.Printf("unclassified error: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case services.KindInvalidInput:
		status = http.StatusBadRequest
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindStorage, services.KindThumbnail:
		log.Printf("%s error: %v", kind, err)
	}

	WriteAPIError(w, status, kind.String(), err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}
