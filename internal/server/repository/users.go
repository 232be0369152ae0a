package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

// pgUniqueViolation — SQLSTATE нарушения уникального индекса.
const pgUniqueViolation = "23505"

const userColumns = `id, email, password_hash, full_name, is_active, is_superuser, created_at, updated_at`

// UsersRepository хранит учётные записи пользователей (PostgreSQL).
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create вставляет нового пользователя и возвращает запись со сгенерированными
// базой id и временными метками.
//
// Ошибки:
//   - ErrEmailExists — email уже занят (unique violation)
//   - ErrInternal — прочие ошибки БД
func (r *UsersRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	row := executor(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, full_name, is_active, is_superuser)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING `+userColumns,
		u.Email, u.PasswordHash, u.FullName, u.IsActive, u.IsSuperuser,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, serr.ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w: %w", serr.ErrInternal, err)
	}
	return created, nil
}

// GetByEmail ищет пользователя по точному (уже нормализованному) email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := executor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=$1`,
		email,
	)
	return r.one(row, "get user by email")
}

// GetByID ищет пользователя по идентификатору.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := executor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`,
		id,
	)
	return r.one(row, "get user by id")
}

// UpdateFullName записывает full_name (nil очищает) и обновляет updated_at.
func (r *UsersRepository) UpdateFullName(ctx context.Context, id uuid.UUID, fullName *string) (*models.User, error) {
	row := executor(ctx, r.db).QueryRowContext(ctx,
		`UPDATE users
		    SET full_name = $2,
		        updated_at = now()
		  WHERE id = $1
		 RETURNING `+userColumns,
		id, fullName,
	)
	return r.one(row, "update full name")
}

// Ping проверяет доступность базы (readiness).
func (r *UsersRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w: %w", serr.ErrInternal, err)
	}
	return nil
}

func (r *UsersRepository) one(row *sql.Row, op string) (*models.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serr.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w: %w", op, serr.ErrInternal, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u        models.User
		fullName sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&fullName,
		&u.IsActive,
		&u.IsSuperuser,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fullName.Valid {
		s := fullName.String
		u.FullName = &s
	}
	return &u, nil
}
