// Package migrations встраивает SQL-миграции в бинарник сервера,
// чтобы не зависеть от рабочей директории при запуске.
package migrations

import "embed"

// Postgres — миграции для PostgreSQL (формат golang-migrate: NNNNNN_name.up.sql / .down.sql).
//
//go:embed postgres/*.sql
var Postgres embed.FS

// PostgresDir — каталог миграций внутри Postgres.
const PostgresDir = "postgres"
