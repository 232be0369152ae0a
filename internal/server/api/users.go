// HTTP-хендлеры профиля текущего пользователя
package api

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// Me возвращает профиль аутентифицированного пользователя.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.UserProfile
// @Failure      401 {object} models.ErrorResponse "Not authenticated / Invalid or expired token"
// @Router       /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeServiceError(w, "me", serr.ErrInvalidToken)
		return
	}
	WriteJSON(w, http.StatusOK, user.Profile())
}

// UpdateMe частично обновляет профиль.
//
// Отсутствующий full_name оставляет профиль как есть, null очищает имя.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.UpdateProfileRequest true "Patch request"
// @Success      200 {object} models.UserProfile
// @Failure      401 {object} models.ErrorResponse "Not authenticated / Invalid or expired token"
// @Failure      422 {object} models.ErrorResponse "full_name longer than 200 characters"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /users/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeServiceError(w, "update me", serr.ErrInvalidToken)
		return
	}

	var req shared.UpdateProfileRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, "update me", err)
		return
	}
	if err := validateProfilePatch(req); err != nil {
		h.writeServiceError(w, "update me", err)
		return
	}

	// пустой патч ничего не меняет
	if !req.FullName.Set {
		WriteJSON(w, http.StatusOK, user.Profile())
		return
	}

	updated, err := h.Svc.Users.UpdateProfile(r.Context(), user, req.FullName.Value)
	if err != nil {
		h.writeServiceError(w, "update me", err)
		return
	}

	WriteJSON(w, http.StatusOK, updated.Profile())
}

func validateProfilePatch(req shared.UpdateProfileRequest) error {
	if req.FullName.Value == nil {
		return nil
	}
	if utf8.RuneCountInString(*req.FullName.Value) > models.FullNameMaxLen {
		return &ValidationError{Fields: []shared.FieldError{{
			Field:   "full_name",
			Message: fmt.Sprintf("must be at most %d characters", models.FullNameMaxLen),
		}}}
	}
	return nil
}
