package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"food-rescue-matching/internal/ports/matchingtx"
)

// MatchingRepo is the pool-backed matching store.
type MatchingRepo struct {
	*Store
	db *pgxpool.Pool
}

// NewMatchingRepo creates a new MatchingRepo.
func NewMatchingRepo(db *pgxpool.Pool) *MatchingRepo {
	return &MatchingRepo{Store: &Store{q: db}, db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *MatchingRepo) WithTx(ctx context.Context, fn func(tx matchingtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&Store{q: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
