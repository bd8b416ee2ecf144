package inventory

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción (variants, supply_batches, sales,
// reservations, inventory_loss, products, categories).
type TxRepos struct {
	Variants     repository.VariantRepository
	Batches      repository.SupplyBatchRepository
	Losses       repository.InventoryLossRepository
	Sales        repository.SaleRepository
	Reservations repository.ReservationRepository
	Products     repository.ProductRepository
	Categories   repository.CategoryRepository

	// Savepoint ejecuta fn dentro de un savepoint de la transacción actual:
	// si fn falla solo se deshacen sus cambios y la transacción externa sigue utilizable.
	Savepoint func(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

// TxRunner ejecuta una función dentro de una transacción multi-documento.
// Commit si fn retorna nil; Rollback en cualquier otro caso. No reintenta conflictos.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
