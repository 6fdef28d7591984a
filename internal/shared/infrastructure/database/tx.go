package database

import (
	"context"
	"errors"
)

type txKey struct{}

// txScope is what Begin stores in the context. Only the outermost scope
// owns the transaction and may end it.
type txScope struct {
	tx    Transaction
	owner bool
}

// ErrNoTransaction is returned by Commit or Rollback outside Begin.
var ErrNoTransaction = errors.New("no transaction in context")

func scopeFrom(ctx context.Context) (txScope, bool) {
	s, ok := ctx.Value(txKey{}).(txScope)
	return s, ok && s.tx != nil
}

// TxFromContext returns the open transaction, or nil.
func TxFromContext(ctx context.Context) Transaction {
	s, _ := scopeFrom(ctx)
	return s.tx
}

// ExecutorFromContext lets repositories join an open transaction and fall
// back to the connection otherwise.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}

// UnitOfWork implements application.UnitOfWork over a Connection. Nested
// Begin calls join the outer transaction; their Commit and Rollback are
// no-ops so the outermost caller decides the outcome.
type UnitOfWork struct {
	conn Connection
}

func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if s, ok := scopeFrom(ctx); ok {
		return context.WithValue(ctx, txKey{}, txScope{tx: s.tx}), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, txKey{}, txScope{tx: tx, owner: true}), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	return u.end(ctx, Transaction.Commit)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return u.end(ctx, Transaction.Rollback)
}

func (u *UnitOfWork) end(ctx context.Context, fn func(Transaction, context.Context) error) error {
	s, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !s.owner {
		return nil
	}
	return fn(s.tx, ctx)
}
