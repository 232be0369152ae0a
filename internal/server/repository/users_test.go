package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/models"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/utils"
)

var userCols = []string{"id", "email", "password_hash", "full_name", "is_active", "is_superuser", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// Успех: база вернула созданную запись
func TestUsersRepository_Create_OK(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("test@mail.com", "hash", "Ann", true, false).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), "test@mail.com", "hash", "Ann", true, false, now, now))

	got, err := repo.Create(context.Background(), &models.User{
		Email:        "test@mail.com",
		PasswordHash: "hash",
		FullName:     utils.StrPtr("Ann"),
		IsActive:     true,
	})
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "Ann", *got.FullName)
	require.True(t, got.IsActive)
	require.False(t, got.IsSuperuser)
	require.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

// full_name не передан — в базу уходит NULL, из базы приходит NULL
func TestUsersRepository_Create_NullFullName(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewUsersRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@b.io", "hash", nil, true, false).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(uuid.NewString(), "a@b.io", "hash", nil, true, false, now, now))

	got, err := repo.Create(context.Background(), &models.User{Email: "a@b.io", PasswordHash: "hash", IsActive: true})
	require.NoError(t, err)
	require.Nil(t, got.FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Такой email уже есть
func TestUsersRepository_Create_EmailExists(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.io", PasswordHash: "h"})
	require.ErrorIs(t, err, serr.ErrEmailExists)
}

// Ошибка сервера
func TestUsersRepository_Create_InternalError(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.io", PasswordHash: "h"})
	require.ErrorIs(t, err, serr.ErrInternal)
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.False(t, errors.Is(err, serr.ErrEmailExists))
}

// Другой код postgres — не конфликт
func TestUsersRepository_Create_OtherPgError(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23502"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.io", PasswordHash: "h"})
	require.ErrorIs(t, err, serr.ErrInternal)
}

func TestUsersRepository_GetByEmail(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()

	tests := []struct {
		name    string
		setup   func(m sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`SELECT (.+) FROM users WHERE email=\$1`).
					WithArgs("test@mail.com").
					WillReturnRows(sqlmock.NewRows(userCols).
						AddRow(id.String(), "test@mail.com", "hash", nil, true, false, now, now))
			},
		},
		{
			name: "not found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`SELECT (.+) FROM users WHERE email=\$1`).
					WithArgs("test@mail.com").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: serr.ErrNotFound,
		},
		{
			name: "db error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`SELECT (.+) FROM users WHERE email=\$1`).
					WithArgs("test@mail.com").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: serr.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := repository.NewUsersRepository(db)
			tt.setup(mock)

			got, err := repo.GetByEmail(context.Background(), "test@mail.com")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, id, got.ID)
			require.Equal(t, "hash", got.PasswordHash)
			require.Nil(t, got.FullName)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUsersRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	require.ErrorIs(t, err, serr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepository_UpdateFullName(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	created := time.Now().UTC().Add(-time.Hour)
	updated := time.Now().UTC()

	// установка имени
	mock.ExpectQuery(`UPDATE users`).
		WithArgs(id, "Bob").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), "a@b.io", "hash", "Bob", true, false, created, updated))
	// очистка имени
	mock.ExpectQuery(`UPDATE users`).
		WithArgs(id, nil).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id.String(), "a@b.io", "hash", nil, true, false, created, updated))

	got, err := repo.UpdateFullName(context.Background(), id, utils.StrPtr("Bob"))
	require.NoError(t, err)
	require.Equal(t, "Bob", *got.FullName)
	require.True(t, got.UpdatedAt.After(got.CreatedAt))

	got, err = repo.UpdateFullName(context.Background(), id, nil)
	require.NoError(t, err)
	require.Nil(t, got.FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepository_UpdateFullName_Missing(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`UPDATE users`).WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateFullName(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestUsersRepository_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	mock.ExpectPing()
	require.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	require.ErrorIs(t, repo.Ping(context.Background()), serr.ErrInternal)
}
