// Package service содержит бизнес-логику приложения (authkeeper).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users  UsersRepo
	Health HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth   *AuthService
	Users  *UsersService
	Health *HealthService
}

// NewServices собирает все сервисы приложения.
//
// hasher и tokens создаются один раз при старте из конфига и дальше не меняются.
func NewServices(repos Repositories, tx Transactor, hasher crypto.PasswordHasher, tokens TokenIssuer, log *zap.Logger) *Services {
	return &Services{
		Auth:   NewAuthService(repos.Users, tx, hasher, tokens, log),
		Users:  NewUsersService(repos.Users, tx),
		Health: NewHealthService(repos.Health),
	}
}

// HealthRepo — минимально нужное для readiness-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateFullName(ctx context.Context, id uuid.UUID, fullName *string) (*models.User, error)
}

// Transactor выполняет функцию в рамках одной транзакции.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenIssuer выпускает access-токены.
type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
	TTL() time.Duration
}
