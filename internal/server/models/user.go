// Серверная модель пользователя
package models

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// FullNameMaxLen — максимальная длина full_name в символах.
const FullNameMaxLen = 200

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     *string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile возвращает публичное представление пользователя (без хэша пароля).
func (u *User) Profile() shared.UserProfile {
	return shared.UserProfile{
		ID:          u.ID.String(),
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
