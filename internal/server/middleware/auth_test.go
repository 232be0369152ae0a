package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newCodec(t *testing.T) *crypto.TokenCodec {
	t.Helper()
	c, err := crypto.NewTokenCodec(crypto.JWTConfig{SigningKey: testSecret, Algorithm: "HS256", AccessTTL: time.Minute})
	require.NoError(t, err)
	return c
}

// Вспомогательная функция для JWT с произвольным sub
func makeToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func serve(g *middleware.BearerGuard, header string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	g.Middleware(next).ServeHTTP(rr, req)
	return rr
}

func detail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Detail
}

var mustNotCall = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	panic("handler must not be called")
})

// Успех
func TestBearerGuard_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepo(ctrl)
	codec := newCodec(t)
	g := middleware.NewBearerGuard(codec, users, nil)

	u := &models.User{ID: uuid.New(), Email: "a@b.io", IsActive: true}
	users.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)

	token, _, err := codec.Issue(u.ID.String())
	require.NoError(t, err)

	called := false
	rr := serve(g, "bearer "+token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got, ok := middleware.UserFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, u.ID, got.ID)
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, called)
}

// Нет заголовка или он не Bearer
func TestBearerGuard_NotAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := middleware.NewBearerGuard(newCodec(t), mocks.NewMockUsersRepo(ctrl), nil)

	for _, h := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		rr := serve(g, h, mustNotCall)
		require.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", h)
		require.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		require.Equal(t, "Not authenticated", detail(t, rr))
	}
}

// Все отказы проверки токена выглядят одинаково
func TestBearerGuard_InvalidToken(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name  string
		token func(t *testing.T) string
		setup func(users *mocks.MockUsersRepo)
	}{
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not.a.jwt" },
		},
		{
			name:  "expired",
			token: func(t *testing.T) string { return makeToken(t, id.String(), time.Now().Add(-time.Minute)) },
		},
		{
			name:  "subject not uuid",
			token: func(t *testing.T) string { return makeToken(t, "42", time.Now().Add(time.Minute)) },
		},
		{
			name:  "unknown subject",
			token: func(t *testing.T) string { return makeToken(t, id.String(), time.Now().Add(time.Minute)) },
			setup: func(users *mocks.MockUsersRepo) {
				users.EXPECT().GetByID(gomock.Any(), id).Return(nil, serr.ErrNotFound)
			},
		},
		{
			name:  "inactive user",
			token: func(t *testing.T) string { return makeToken(t, id.String(), time.Now().Add(time.Minute)) },
			setup: func(users *mocks.MockUsersRepo) {
				users.EXPECT().GetByID(gomock.Any(), id).Return(&models.User{ID: id, IsActive: false}, nil)
			},
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
					Subject:   id.String(),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
				}).SignedString([]byte("another-secret-another-secret-xx"))
				require.NoError(t, err)
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mocks.NewMockUsersRepo(ctrl)
			if tt.setup != nil {
				tt.setup(users)
			}
			g := middleware.NewBearerGuard(newCodec(t), users, nil)

			rr := serve(g, "Bearer "+tt.token(t), mustNotCall)
			require.Equal(t, http.StatusUnauthorized, rr.Code)
			require.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			require.Equal(t, "Invalid or expired token", detail(t, rr))
		})
	}
}

// Сбой хранилища при поиске пользователя — 500
func TestBearerGuard_StoreFault(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepo(ctrl)
	g := middleware.NewBearerGuard(newCodec(t), users, nil)

	id := uuid.New()
	users.EXPECT().GetByID(gomock.Any(), id).Return(nil, serr.ErrInternal)

	rr := serve(g, "Bearer "+makeToken(t, id.String(), time.Now().Add(time.Minute)), mustNotCall)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Internal server error", detail(t, rr))
}

func TestExtractBearer(t *testing.T) {
	require.Equal(t, "abc", middleware.ExtractBearer("Bearer abc"))
	require.Equal(t, "abc", middleware.ExtractBearer("  BEARER   abc "))
	require.Equal(t, "", middleware.ExtractBearer("Token abc"))
	require.Equal(t, "", middleware.ExtractBearer("Bearerabc"))
	require.Equal(t, "", middleware.ExtractBearer(""))
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := middleware.UserFromContext(context.Background())
	require.False(t, ok)

	u := &models.User{ID: uuid.New()}
	got, ok := middleware.UserFromContext(middleware.WithUser(context.Background(), u))
	require.True(t, ok)
	require.Same(t, u, got)
}
