package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeBody decodes a JSON request body with a 1MB cap, writing the
// error response itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err.Error() == "http: request body too large" {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// monthYearParams parses the {month}/{year} URL segments, writing the
// error response itself when either is out of range.
func monthYearParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid month"))
		return 0, 0, false
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1970 || year > 9999 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid year"))
		return 0, 0, false
	}

	return month, year, true
}

// idParam parses a numeric {id} URL segment, writing the error response
// itself when it is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid id"))
		return 0, false
	}
	return id, true
}
