// HTTP-хендлеры регистрации и логина
package api

import (
	"net/http"
)

// RegisterRequest описывает тело запроса регистрации пользователя.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,maxbytes=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=200"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register обрабатывает регистрацию пользователя и сразу выдаёт токен.
//
// @Summary      Register
// @Description  Creates a user and returns an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Register request"
// @Success      201 {object} models.TokenResponse
// @Failure      409 {object} models.ErrorResponse "Email already registered"
// @Failure      422 {object} models.ErrorResponse "Validation error"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, "register", err)
		return
	}
	if err := validateStruct(&req); err != nil {
		h.writeServiceError(w, "register", err)
		return
	}

	user, err := h.Svc.Auth.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.writeServiceError(w, "register", err)
		return
	}

	token, err := h.Svc.Auth.IssueToken(user)
	if err != nil {
		h.writeServiceError(w, "register", err)
		return
	}

	WriteJSON(w, http.StatusCreated, token)
}

// Login проверяет учётные данные и выдаёт access-токен.
//
// @Summary      Login
// @Description  Exchanges email and password for an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} models.TokenResponse
// @Failure      401 {object} models.ErrorResponse "Invalid credentials"
// @Failure      422 {object} models.ErrorResponse "Validation error"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeServiceError(w, "login", err)
		return
	}
	if err := validateStruct(&req); err != nil {
		h.writeServiceError(w, "login", err)
		return
	}

	user, err := h.Svc.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, "login", err)
		return
	}

	token, err := h.Svc.Auth.IssueToken(user)
	if err != nil {
		h.writeServiceError(w, "login", err)
		return
	}

	WriteJSON(w, http.StatusOK, token)
}
