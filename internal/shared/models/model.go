// Package models содержит DTO HTTP API, общие для сервера и CLI-клиента.
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// TokenType — тип выдаваемого токена, всегда "bearer".
const TokenType = "bearer"

// TokenResponse — ответ эндпоинтов регистрации и входа.
//
// Используется в:
//
//	POST /auth/register (201)
//	POST /auth/login    (200)
//
// ExpiresIn — срок жизни access-токена в секундах.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserProfile — публичное представление пользователя.
//
// Хэш пароля сюда никогда не попадает.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HealthResponse — ответ health-эндпоинтов.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse — тело ответа с ошибкой.
//
// Detail — короткое сообщение, Errors заполняется только для ошибок валидации (422).
type ErrorResponse struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError описывает нарушение ограничения для одного поля запроса.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OptionalString различает три состояния JSON-поля:
// ключ отсутствует (Set=false), явный null (Set=true, Value=nil)
// и строковое значение (Set=true, Value!=nil).
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON вызывается только если ключ присутствует в объекте.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// MarshalJSON пишет null для незаданного или пустого значения.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// UpdateProfileRequest — запрос частичного обновления профиля.
//
// Используется в:
//
//	PATCH /users/me
//
// Отсутствующий full_name не меняет профиль, null очищает имя.
type UpdateProfileRequest struct {
	FullName OptionalString `json:"full_name"`
}
