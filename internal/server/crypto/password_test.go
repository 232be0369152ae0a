package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	crypt "github.com/IvanChernomyrdin/go-authkeeper/internal/server/crypto"
)

func testHashers(t *testing.T) map[string]crypt.PasswordHasher {
	t.Helper()

	bc, err := crypt.NewPasswordHasher("bcrypt", bcrypt.MinCost, crypt.Argon2Params{})
	require.NoError(t, err)

	ar, err := crypt.NewPasswordHasher("argon2id", 0, crypt.Argon2Params{
		Time:      1,
		MemoryKiB: 8 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	})
	require.NoError(t, err)

	return map[string]crypt.PasswordHasher{"bcrypt": bc, "argon2id": ar}
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			const password = "longenough1"

			hash1, err := h.Hash(password)
			require.NoError(t, err)
			hash2, err := h.Hash(password)
			require.NoError(t, err)

			require.NotEqual(t, password, hash1)
			// соль случайная — хэши разные
			require.NotEqual(t, hash1, hash2)

			ok, err := h.Verify(password, hash1)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = h.Verify(password, hash2)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = h.Verify("otherpassword", hash1)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestPasswordHasher_VerifyMalformedHash(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("password123", "not-a-hash")
			require.Error(t, err)
			require.False(t, ok)
		})
	}
}

// После смены hasher в конфиге старые хэши проверяются своей схемой
func TestPasswordHasher_VerifyAcrossSchemes(t *testing.T) {
	hashers := testHashers(t)
	const password = "longenough1"

	for from, src := range hashers {
		stored, err := src.Hash(password)
		require.NoError(t, err)

		for to, dst := range hashers {
			t.Run(from+"->"+to, func(t *testing.T) {
				ok, err := dst.Verify(password, stored)
				require.NoError(t, err)
				require.True(t, ok)

				ok, err = dst.Verify("wrongpassword", stored)
				require.NoError(t, err)
				require.False(t, ok)
			})
		}
	}
}

func TestPasswordHasher_BcryptHashUnderArgon2Config(t *testing.T) {
	stored, err := crypt.BcryptHasher{Cost: bcrypt.MinCost}.Hash("longenough1")
	require.NoError(t, err)

	h, err := crypt.NewPasswordHasher("argon2id", 0, crypt.Argon2Params{
		Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16,
	})
	require.NoError(t, err)

	ok, err := h.Verify("longenough1", stored)
	require.NoError(t, err)
	require.True(t, ok)

	// новые хэши уже в формате argon2id
	fresh, err := h.Hash("longenough1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(fresh, "argon2id$"))
}

func TestVerifyPassword_RejectsBadSegments(t *testing.T) {
	hash, err := crypt.HashPassword("longenough1", crypt.Argon2Params{
		Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16,
	})
	require.NoError(t, err)
	parts := strings.Split(hash, "$")

	tests := []struct {
		name    string
		encoded string
	}{
		{name: "other version", encoded: strings.Join([]string{parts[0], "v=16", parts[2], parts[3], parts[4]}, "$")},
		{name: "zero threads", encoded: strings.Join([]string{parts[0], parts[1], "m=8192,t=1,p=0", parts[3], parts[4]}, "$")},
		{name: "bad salt", encoded: strings.Join([]string{parts[0], parts[1], parts[2], "!!", parts[4]}, "$")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := crypt.VerifyPassword("longenough1", tt.encoded)
			require.Error(t, err)
			require.False(t, ok)
		})
	}
}

func TestNewPasswordHasher_Errors(t *testing.T) {
	_, err := crypt.NewPasswordHasher("md5", 10, crypt.Argon2Params{})
	require.Error(t, err)

	_, err = crypt.NewPasswordHasher("bcrypt", 100, crypt.Argon2Params{})
	require.Error(t, err)
}

func TestHashPassword_Format(t *testing.T) {
	hash, err := crypt.HashPassword("strongpassword", crypt.Argon2Params{
		Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16,
	})
	require.NoError(t, err)
	require.Regexp(t, `^argon2id\$v=19\$m=8192,t=1,p=1\$[A-Za-z0-9+/]+\$[A-Za-z0-9+/]+$`, hash)

	_, err = crypt.HashPassword("", crypt.Argon2Params{SaltLen: 16, KeyLen: 32, Time: 1, MemoryKiB: 8, Threads: 1})
	require.Error(t, err)
}
