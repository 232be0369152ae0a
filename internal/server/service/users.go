package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
)

// UsersService — чтение и изменение профиля пользователя.
type UsersService struct {
	users UsersRepo
	tx    Transactor
}

func NewUsersService(users UsersRepo, tx Transactor) *UsersService {
	return &UsersService{users: users, tx: tx}
}

// GetByID возвращает пользователя по id, без кэширования.
// Отсутствие пользователя — ErrNotFound.
func (s *UsersService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByID(ctx, id)
		user = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile записывает full_name (nil очищает) и возвращает обновлённую запись.
// Конкурентные обновления не координируются: побеждает последний.
func (s *UsersService) UpdateProfile(ctx context.Context, user *models.User, fullName *string) (*models.User, error) {
	var updated *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.UpdateFullName(ctx, user.ID, fullName)
		updated = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
