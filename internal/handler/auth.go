package handler

import (
	"errors"
	"net/http"

	"github.com/pennywise/pennywise-go/internal/middleware"
	"github.com/pennywise/pennywise-go/internal/model"
	"github.com/pennywise/pennywise-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignUp handles POST /auth/signup requests.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req model.SignUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired), errors.Is(err, service.ErrEmailRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserExists):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleSignIn handles POST /auth/signin requests.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleSetPassword handles POST /auth/password requests. The caller is
// identified by their access token, not the request body.
func (h *AuthHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.SetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.SetPassword(r.Context(), userID, req.Password); err != nil {
		if errors.Is(err, service.ErrPasswordRequired) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh handles POST /auth/refresh-token requests.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleLogout handles POST /auth/logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req model.LogoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken, req.AllDevices); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	// Succeeds even when nothing was stored for the token.
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
