// Package config содержит и инициализацию подключения к базе данных сервера.
//
// OpenDB выполняет:
//   - открытие пула соединений с PostgreSQL (через драйвер pgx);
//   - проверку доступности базы (Ping);
//   - запуск миграций (golang-migrate) при старте сервера.
//
// Полученный *sql.DB передаётся репозиториям явно, глобальной переменной нет.
package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-authkeeper/migrations"

	_ "github.com/jackc/pgx/v4/stdlib"
)

// DriverName — имя database/sql драйвера pgx.
const DriverName = "pgx"

// OpenDB открывает подключение к базе данных по конфигу, проверяет его доступность
// и, если миграции не отключены, применяет их.
//
// При любой ошибке пул закрывается, чтобы сервер не стартовал наполовину.
func OpenDB(ctx context.Context, cfg *Config, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open(DriverName, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}
	if cfg.DB.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DB.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("check db connection: %w", err)
	}

	if cfg.Migrations.Skip {
		log.Info("migrations skipped by config")
		return db, nil
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("migrations applied successfully")

	return db, nil
}

// RunMigrations применяет встроенные миграции migrations.Postgres.
// Если миграции уже применены, migrate.ErrNoChange не считается ошибкой.
func RunMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations.Postgres, migrations.PostgresDir)
	if err != nil {
		return fmt.Errorf("open migrations source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
