package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// No reintenta: los conflictos de serialización llegan al caller como ErrTransactionAborted.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.TransactionAborted(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.TransactionAborted(err)
	}
	return nil
}

// Repos repositorios sobre el pool (autocommit), para lecturas fuera de transacción.
func Repos(pool *pgxpool.Pool) inventory.TxRepos {
	repos := bind(pool)
	repos.Savepoint = func(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
		return NewTxRunner(pool).Run(ctx, fn)
	}
	return repos
}

// reposFor ata los repositorios a tx. Savepoint abre una transacción anidada (SAVEPOINT).
func reposFor(tx pgx.Tx) inventory.TxRepos {
	repos := bind(tx)
	repos.Savepoint = func(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return domain.TransactionAborted(err)
		}
		if err := fn(ctx, reposFor(sp)); err != nil {
			if rbErr := sp.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				return domain.TransactionAborted(rbErr)
			}
			return err
		}
		if err := sp.Commit(ctx); err != nil {
			return domain.TransactionAborted(err)
		}
		return nil
	}
	return repos
}

func bind(q Querier) inventory.TxRepos {
	return inventory.TxRepos{
		Variants:     NewVariantRepository(q),
		Batches:      NewSupplyBatchRepository(q),
		Losses:       NewInventoryLossRepository(q),
		Sales:        NewSaleRepository(q),
		Reservations: NewReservationRepository(q),
		Products:     NewProductRepository(q),
		Categories:   NewCategoryRepository(q),
	}
}
