package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/avelis/habitdo/internal/middleware"
	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
	"github.com/go-chi/chi/v5"
)

type TokenHandler struct {
	tokenRepo repository.APITokenRepository
}

func NewTokenHandler(tokenRepo repository.APITokenRepository) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo}
}

type createTokenPayload struct {
	Name      string `json:"name"`
	ExpiresIn string `json:"expiresIn"`
}

// Create mints an API token. The raw token is returned once; only its hash
// is stored.
func (handler *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var payload createTokenPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var expiresAt *time.Time
	if payload.ExpiresIn != "" {
		duration, err := time.ParseDuration(payload.ExpiresIn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid expiresIn duration")
			return
		}
		expiry := time.Now().Add(duration)
		expiresAt = &expiry
	}

	rawToken := generateToken()
	created, err := handler.tokenRepo.Create(r.Context(), models.APIToken{
		Name:            payload.Name,
		TokenHash:       repository.HashToken(rawToken),
		CreatedByUserID: user.ID,
		ExpiresAt:       expiresAt,
	})
	if err != nil {
		slog.Error("creating token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    created.ID,
		"name":  created.Name,
		"token": rawToken,
	})
}

func (handler *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.tokenRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete token")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
