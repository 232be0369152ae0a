// В этом файле описаны методы клиента для работы
// с эндпоинтами аутентификации: регистрация и вход.
package api

import (
	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// RegisterRequest описывает тело запроса регистрации пользователя.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register регистрирует пользователя и сразу получает access-токен.
func (c *Client) Register(email, password string, fullName *string) (shared.TokenResponse, error) {
	var resp shared.TokenResponse
	err := c.PostJSON("/auth/register", RegisterRequest{Email: email, Password: password, FullName: fullName}, &resp, "")
	return resp, err
}

// Login выполняет вход пользователя и получает access-токен.
func (c *Client) Login(email, password string) (shared.TokenResponse, error) {
	var resp shared.TokenResponse
	err := c.PostJSON("/auth/login", LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}
