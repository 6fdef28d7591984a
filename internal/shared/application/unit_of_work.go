package application

import (
	"context"
	"errors"
	"fmt"
)

// UnitOfWork scopes a transaction to a context. Begin returns the context
// that repositories must use to join the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFunc is the body of a transaction.
type UnitOfWorkFunc func(ctx context.Context) error

// WithUnitOfWork runs fn in a transaction. The transaction commits only
// when fn returns nil; a panic inside fn rolls back and re-panics.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn UnitOfWorkFunc) (err error) {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback(txCtx)
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := uow.Rollback(txCtx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := uow.Commit(txCtx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// AfterCommit wraps uow so every successful Commit runs hooks with the
// committed context. Hooks run after the data is durable and cannot fail
// the transaction.
func AfterCommit(uow UnitOfWork, hooks ...func(ctx context.Context)) UnitOfWork {
	return &afterCommit{UnitOfWork: uow, hooks: hooks}
}

type afterCommit struct {
	UnitOfWork
	hooks []func(ctx context.Context)
}

func (u *afterCommit) Commit(ctx context.Context) error {
	if err := u.UnitOfWork.Commit(ctx); err != nil {
		return err
	}
	for _, hook := range u.hooks {
		hook(ctx)
	}
	return nil
}
