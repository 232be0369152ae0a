package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// AuthService реализует регистрацию, аутентификацию и выпуск access-токенов.
//
// Причины отказа во входе наружу не раскрываются: клиент всегда получает
// ErrInvalidCredentials, конкретная причина пишется в лог на уровне debug.
type AuthService struct {
	users  UsersRepo
	tx     Transactor
	hasher crypto.PasswordHasher
	tokens TokenIssuer
	log    *zap.Logger
}

// NewAuthService создаёт AuthService. Если log == nil, используется zap.NewNop().
func NewAuthService(users UsersRepo, tx Transactor, hasher crypto.PasswordHasher, tokens TokenIssuer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:  users,
		tx:     tx,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

// NormalizeEmail приводит email к каноническому виду: без пробелов по краям, в нижнем регистре.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register регистрирует нового пользователя (is_active=true, is_superuser=false).
//
// Формат email и пароля уже проверен на границе (api).
//
// Ошибки:
//   - ErrEmailExists — email уже зарегистрирован
//   - ErrInternal — ошибка хэширования или БД
func (s *AuthService) Register(ctx context.Context, email, password string, fullName *string) (*models.User, error) {
	email = NormalizeEmail(email)

	// хэшируем до транзакции: bcrypt медленный, соединение из пула не держим
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w: %w", serr.ErrInternal, err)
	}

	var created *models.User
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// быстрая проверка, окончательное слово за уникальным индексом
		_, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return serr.ErrEmailExists
		case !errors.Is(err, serr.ErrNotFound):
			return err
		}

		created, err = s.users.Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			FullName:     fullName,
			IsActive:     true,
			IsSuperuser:  false,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, serr.ErrEmailExists) {
			s.log.Debug("register rejected", zap.String("email", email), zap.String("reason", "email exists"))
		}
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", created.ID.String()))
	return created, nil
}

// Authenticate проверяет email и пароль.
//
// Неизвестный email, неактивный пользователь и неверный пароль
// неотличимы снаружи: все дают ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	var user *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			s.rejectLogin(email, "unknown email")
			return nil, serr.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		s.rejectLogin(email, "inactive user")
		return nil, serr.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// в базе лежит хэш, который мы не умеем разобрать
		s.log.Error("verify password", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("verify password: %w: %w", serr.ErrInternal, err)
	}
	if !ok {
		s.rejectLogin(email, "wrong password")
		return nil, serr.ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken выпускает access-токен для пользователя.
//
// ExpiresIn — срок жизни в секундах (минуты из конфига * 60).
func (s *AuthService) IssueToken(user *models.User) (shared.TokenResponse, error) {
	token, _, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return shared.TokenResponse{}, fmt.Errorf("issue token: %w: %w", serr.ErrInternal, err)
	}
	return shared.TokenResponse{
		AccessToken: token,
		TokenType:   shared.TokenType,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *AuthService) rejectLogin(email, reason string) {
	s.log.Debug("login rejected", zap.String("email", email), zap.String("reason", reason))
}
