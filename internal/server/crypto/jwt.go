// Package crypto содержит криптографические примитивы,
// используемые сервером.
//
// В частности, пакет отвечает за:
//   - выпуск и проверку подписанных JWT access-токенов (один ключ, один алгоритм);
//   - хэширование и проверку паролей пользователей (bcrypt или argon2id).
package crypto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

// JWTConfig описывает параметры выпуска и проверки JWT access-токена.
type JWTConfig struct {
	// SigningKey — секретный ключ для подписи токена.
	// Должен быть достаточно длинным и случайным.
	SigningKey string
	// Algorithm — имя симметричного алгоритма подписи: HS256, HS384 или HS512.
	Algorithm string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// Claims — полезная нагрузка токена: sub, iat, exp.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec выпускает и проверяет токены.
//
// Ключ, алгоритм и TTL фиксируются при создании и больше не меняются.
type TokenCodec struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption настраивает TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// SigningMethod возвращает HMAC-метод по имени алгоритма.
func SigningMethod(alg string) (jwt.SigningMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
}

// NewTokenCodec создаёт кодек токенов.
//
// Возвращает ошибку, если ключ пустой, алгоритм не поддерживается
// или TTL не положительный.
func NewTokenCodec(cfg JWTConfig, opts ...CodecOption) (*TokenCodec, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("empty signing key")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("access ttl must be positive")
	}
	method, err := SigningMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	c := &TokenCodec{
		key:    []byte(cfg.SigningKey),
		method: method,
		ttl:    cfg.AccessTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL возвращает срок жизни выпускаемых токенов.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue создаёт и подписывает токен для subject.
//
// Токен содержит стандартные claims:
//   - sub (subject)
//   - iat (IssuedAt)
//   - exp (ExpiresAt = iat + TTL)
func (c *TokenCodec) Issue(subject string) (string, time.Time, error) {
	now := c.now()
	exp := now.Add(c.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	t := jwt.NewWithClaims(c.method, claims)
	signed, err := t.SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify проверяет подпись, алгоритм и срок действия токена.
//
// Любая проблема (битый формат, чужая подпись, другой алгоритм,
// now >= exp, пустой sub) сводится к serr.ErrInvalidToken;
// исходная причина доступна через errors.Unwrap для логов.
func (c *TokenCodec) Verify(token string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", serr.ErrInvalidToken, err)
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return nil, fmt.Errorf("%w: empty subject", serr.ErrInvalidToken)
	}

	out := &Claims{Subject: sub, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
