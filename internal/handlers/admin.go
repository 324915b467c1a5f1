package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	userRepo  repository.UserRepository
	tokenRepo repository.APITokenRepository
}

func NewAdminHandler(userRepo repository.UserRepository, tokenRepo repository.APITokenRepository) *AdminHandler {
	return &AdminHandler{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

func (handler *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := handler.userRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("finding users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	wired := make([]map[string]any, 0, len(users))
	for _, user := range users {
		wired = append(wired, map[string]any{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		})
	}
	writeJSON(w, http.StatusOK, wired)
}

type updateRolePayload struct {
	Role string `json:"role"`
}

func (handler *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var payload updateRolePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role := models.Role(payload.Role)
	if role != models.RoleAdmin && role != models.RoleMember {
		writeError(w, http.StatusBadRequest, "role must be admin or member")
		return
	}

	if err := handler.userRepo.UpdateRole(r.Context(), chi.URLParam(r, "id"), role); err != nil {
		slog.Error("updating user role", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update role")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Tokens lists API token metadata. Raw tokens are never recoverable; only
// the hash is stored.
func (handler *AdminHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := handler.tokenRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("finding tokens", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tokens")
		return
	}

	wired := make([]map[string]any, 0, len(tokens))
	for _, token := range tokens {
		entry := map[string]any{
			"id":   token.ID,
			"name": token.Name,
		}
		if token.ExpiresAt != nil {
			entry["expiresAt"] = models.WireTime(*token.ExpiresAt)
		}
		wired = append(wired, entry)
	}
	writeJSON(w, http.StatusOK, wired)
}
