package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pennywise/pennywise-go/internal/middleware"
	"github.com/pennywise/pennywise-go/internal/model"
	"github.com/pennywise/pennywise-go/internal/service"
)

// NoteHandler handles HTTP requests for notes.
type NoteHandler struct {
	service *service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{service: svc}
}

// HandleList handles GET /note requests. Pinned notes come first.
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	if list == nil {
		list = []model.Note{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleCreate handles POST /note requests.
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.NoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	note, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrContentRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// HandleUpdate handles PUT /note/{id} requests.
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req model.NoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	note, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrContentRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrNoteNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// HandlePin handles POST /note/{id}/{action} requests, where action is
// pin or unpin.
func (h *NoteHandler) HandlePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	note, err := h.service.Pin(r.Context(), userID, id, chi.URLParam(r, "action"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidNoteAction):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrNoteNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// HandleDelete handles POST /note/delete requests: bulk removal by id
// list.
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.DeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.Delete(r.Context(), userID, req.IDs); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
