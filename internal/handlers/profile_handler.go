package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/profilekeeper/backend/internal/middleware"
	"github.com/profilekeeper/backend/internal/models"
	"github.com/profilekeeper/backend/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
	timeout  time.Duration
}

func NewProfileHandler(profiles *services.ProfileService, timeout time.Duration) *ProfileHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProfileHandler{profiles: profiles, timeout: timeout}
}

// GetProfile returns the caller's own profile document.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	if email == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	prof, err := h.profiles.GetProfile(ctx, email)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[GetProfile] user=%s error=%v", email, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch profile"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewUserResponse(prof))
}

// UpdateProfile validates and stores name, bio and location for the caller.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserEmail(r.Context())
	if email == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	prof, err := h.profiles.UpdateProfile(ctx, email, &req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(verr.Message))
			return
		}
		log.Printf("[UpdateProfile] user=%s error=%v", email, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}
