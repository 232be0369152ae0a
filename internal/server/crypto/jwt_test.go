package crypto_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

const testKey = "supersecretkeysupersecretkey123456"

func newCodec(t *testing.T, key string, ttl time.Duration, now func() time.Time) *crypt.TokenCodec {
	t.Helper()
	c, err := crypt.NewTokenCodec(crypt.JWTConfig{
		SigningKey: key,
		Algorithm:  "HS256",
		AccessTTL:  ttl,
	}, crypt.WithClock(now))
	require.NoError(t, err)
	return c
}

func TestTokenCodec_IssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newCodec(t, testKey, 30*time.Minute, time.Now)
	sub := uuid.NewString()

	token, exp, err := c.Issue(sub)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 2*time.Second)

	claims, err := c.Verify(token)
	require.NoError(t, err)
	require.Equal(t, sub, claims.Subject)
	require.Equal(t, 30*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestTokenCodec_Issue_UsesHS256(t *testing.T) {
	t.Parallel()

	c := newCodec(t, testKey, time.Minute, time.Now)
	token, _, err := c.Issue("user")
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			t.Fatalf("unexpected signing method: %v", tok.Method)
		}
		return []byte(testKey), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
}

func TestTokenCodec_Verify_Expired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newCodec(t, testKey, time.Minute, func() time.Time { return issuedAt })

	token, _, err := issuer.Issue("user")
	require.NoError(t, err)

	// ровно в момент exp токен уже недействителен
	atExp := newCodec(t, testKey, time.Minute, func() time.Time { return issuedAt.Add(time.Minute) })
	_, err = atExp.Verify(token)
	require.ErrorIs(t, err, serr.ErrInvalidToken)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	before := newCodec(t, testKey, time.Minute, func() time.Time { return issuedAt.Add(59 * time.Second) })
	claims, err := before.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user", claims.Subject)
}

func TestTokenCodec_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	other := newCodec(t, "another-secret-another-secret-1234", time.Minute, time.Now)
	token, _, err := other.Issue("user")
	require.NoError(t, err)

	c := newCodec(t, testKey, time.Minute, time.Now)
	_, err = c.Verify(token)
	require.ErrorIs(t, err, serr.ErrInvalidToken)
}

func TestTokenCodec_Verify_WrongAlgorithm(t *testing.T) {
	t.Parallel()

	hs512, err := crypt.NewTokenCodec(crypt.JWTConfig{SigningKey: testKey, Algorithm: "HS512", AccessTTL: time.Minute})
	require.NoError(t, err)
	token, _, err := hs512.Issue("user")
	require.NoError(t, err)

	c := newCodec(t, testKey, time.Minute, time.Now)
	_, err = c.Verify(token)
	require.ErrorIs(t, err, serr.ErrInvalidToken)
}

func TestTokenCodec_Verify_NoneAlgRejected(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{
		Subject:   "user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	c := newCodec(t, testKey, time.Minute, time.Now)
	_, err = c.Verify(token)
	require.ErrorIs(t, err, serr.ErrInvalidToken)
}

func TestTokenCodec_Verify_MissingExpOrSubject(t *testing.T) {
	t.Parallel()

	sign := func(claims jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
		require.NoError(t, err)
		return s
	}

	c := newCodec(t, testKey, time.Minute, time.Now)

	_, err := c.Verify(sign(jwt.RegisteredClaims{Subject: "user"}))
	require.ErrorIs(t, err, serr.ErrInvalidToken)

	_, err = c.Verify(sign(jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}))
	require.ErrorIs(t, err, serr.ErrInvalidToken)
}

func TestTokenCodec_Verify_Garbage(t *testing.T) {
	t.Parallel()

	c := newCodec(t, testKey, time.Minute, time.Now)
	for _, tok := range []string{"", "invalidtoken", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30.bad"} {
		_, err := c.Verify(tok)
		if !errors.Is(err, serr.ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestNewTokenCodec_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  crypt.JWTConfig
	}{
		{"empty key", crypt.JWTConfig{Algorithm: "HS256", AccessTTL: time.Minute}},
		{"asymmetric alg", crypt.JWTConfig{SigningKey: testKey, Algorithm: "RS256", AccessTTL: time.Minute}},
		{"zero ttl", crypt.JWTConfig{SigningKey: testKey, Algorithm: "HS256"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := crypt.NewTokenCodec(tt.cfg)
			require.Error(t, err)
		})
	}
}
