// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userKey — ключ контекста, под которым хранится аутентифицированный пользователь.
const userKey ctxKey = "user"

// TokenDecoder проверяет access-токен и возвращает его claims.
type TokenDecoder interface {
	Verify(token string) (*crypto.Claims, error)
}

// UserLookup ищет пользователя по id.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// BearerGuard защищает маршруты, требующие аутентификации.
//
// Для каждого запроса:
//   - извлекает токен из Authorization: Bearer <token>
//   - проверяет токен (подпись, алгоритм, exp, sub)
//   - загружает пользователя по sub и проверяет, что он активен
//   - кладёт пользователя в context.Context
type BearerGuard struct {
	tokens TokenDecoder
	users  UserLookup
	log    *zap.Logger
}

// NewBearerGuard создаёт BearerGuard. Если log == nil, используется zap.NewNop().
func NewBearerGuard(tokens TokenDecoder, users UserLookup, log *zap.Logger) *BearerGuard {
	if log == nil {
		log = zap.NewNop()
	}
	return &BearerGuard{tokens: tokens, users: users, log: log}
}

// WithUser возвращает контекст с аутентифицированным пользователем.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext извлекает аутентифицированного пользователя из контекста.
//
// Возвращает false, если запрос не прошёл через BearerGuard.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// Authenticate разрешает значение заголовка Authorization в пользователя.
//
// Ошибки:
//   - ErrNotAuthenticated — заголовка нет или он не в формате Bearer
//   - ErrInvalidToken — токен не прошёл проверку, пользователь не найден или неактивен
//   - ErrInternal — сбой хранилища
func (g *BearerGuard) Authenticate(ctx context.Context, header string) (*models.User, error) {
	token := ExtractBearer(header)
	if token == "" {
		return nil, serr.ErrNotAuthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.log.Debug("token rejected", zap.Error(err))
		return nil, serr.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		g.log.Debug("token rejected", zap.String("reason", "subject is not uuid"))
		return nil, serr.ErrInvalidToken
	}

	user, err := g.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			g.log.Debug("token rejected", zap.String("reason", "unknown subject"), zap.String("user_id", id.String()))
			return nil, serr.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		g.log.Debug("token rejected", zap.String("reason", "inactive user"), zap.String("user_id", id.String()))
		return nil, serr.ErrInvalidToken
	}

	return user, nil
}

// Middleware возвращает chi-совместимый middleware.
//
// В случае отказа отвечает 401 с телом {"detail": "..."} и заголовком
// WWW-Authenticate: Bearer, при сбое хранилища — 500.
func (g *BearerGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, serr.ErrNotAuthenticated), errors.Is(err, serr.ErrInvalidToken):
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeDetail(w, http.StatusUnauthorized, err.Error())
			default:
				g.log.Error("auth lookup failed", zap.Error(err))
				writeDetail(w, http.StatusInternalServerError, serr.ErrInternal.Error())
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(shared.ErrorResponse{Detail: detail})
}
