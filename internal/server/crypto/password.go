// Хэширование паролей
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher — односторонний солёный хэш пароля и его проверка.
//
// Каждый вызов Hash на одинаковом входе даёт разный результат (случайная соль),
// Verify при этом остаётся корректным.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

var errInvalidHashFormat = errors.New("invalid hash format")

// NewPasswordHasher выбирает реализацию Hash по имени из конфига.
//
// Verify у результата определяет схему по префиксу хэша, поэтому после
// смены password.hasher старые пароли продолжают проверяться.
func NewPasswordHasher(name string, bcryptCost int, argon Argon2Params) (PasswordHasher, error) {
	var primary PasswordHasher
	switch strings.ToLower(strings.TrimSpace(name)) {
	case HasherBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d,%d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		primary = BcryptHasher{Cost: bcryptCost}
	case HasherArgon2id:
		primary = Argon2Hasher{Params: argon}
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
	return SchemeHasher{Primary: primary}, nil
}

// SchemeHasher хэширует через Primary, а проверяет той схемой,
// которой был получен сохранённый хэш.
type SchemeHasher struct {
	Primary PasswordHasher
}

func (h SchemeHasher) Hash(password string) (string, error) {
	return h.Primary.Hash(password)
}

func (h SchemeHasher) Verify(password, encoded string) (bool, error) {
	switch {
	case isBcryptHash(encoded):
		return BcryptHasher{}.Verify(password, encoded)
	case strings.HasPrefix(encoded, HasherArgon2id+"$"):
		return VerifyPassword(password, encoded)
	default:
		return false, errInvalidHashFormat
	}
}

func isBcryptHash(encoded string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

// BcryptHasher хэширует пароли через bcrypt.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(b), nil
}

// Verify возвращает false без ошибки при несовпадении пароля.
func (h BcryptHasher) Verify(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt verify: %w", err)
	}
}

type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

// Argon2Hasher хэширует пароли через argon2id.
type Argon2Hasher struct {
	Params Argon2Params
}

func (h Argon2Hasher) Hash(password string) (string, error) {
	return HashPassword(password, h.Params)
}

func (h Argon2Hasher) Verify(password, encoded string) (bool, error) {
	return VerifyPassword(password, encoded)
}

// HashPassword возвращает строку формата:
// argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
func HashPassword(password string, p Argon2Params) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}

	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf(
		"argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		b64Salt, b64Hash,
	)
	return encoded, nil
}

func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != HasherArgon2id {
		return false, errInvalidHashFormat
	}
	if parts[1] != fmt.Sprintf("v=%d", argon2.Version) {
		return false, fmt.Errorf("unsupported argon2 version %q", parts[1])
	}

	// parts[1] = v=19
	// parts[2] = m=...,t=...,p=...
	// parts[3] = salt
	// parts[4] = hash

	var memory uint32
	var time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, errors.New("invalid params format")
	}
	// IDKey паникует при threads == 0
	if memory == 0 || time == 0 || threads == 0 {
		return false, errors.New("invalid params format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, errors.New("invalid salt")
	}

	wantHash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errors.New("invalid hash")
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(wantHash)))
	return subtle.ConstantTimeCompare(got, wantHash) == 1, nil
}
