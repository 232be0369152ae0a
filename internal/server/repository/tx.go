// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	serr "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/errors"
)

// DBTX — подмножество database/sql, которым пользуются репозитории.
// Ему удовлетворяют и *sql.DB, и *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// TxManager открывает транзакцию на единицу работы сервиса.
//
// Транзакция кладётся в контекст, и все репозитории, получившие этот контекст,
// выполняют запросы внутри неё.
type TxManager struct {
	db *sql.DB
}

// NewTxManager создаёт TxManager поверх пула соединений.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx выполняет fn внутри транзакции.
//
// Успех — commit, ошибка или паника — rollback. Паника пробрасывается дальше.
// Если в ctx уже есть транзакция, fn выполняется в ней (вложенных транзакций нет).
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %w", serr.ErrInternal, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w: %w", serr.ErrInternal, cerr)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}

// executor возвращает транзакцию из ctx или пул, если транзакции нет.
func executor(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
