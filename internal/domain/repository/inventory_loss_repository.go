package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// InventoryLossRepository puerto append-only para pérdidas de inventario.
type InventoryLossRepository interface {
	Create(ctx context.Context, loss *entity.InventoryLoss) error
	ListByVariant(ctx context.Context, variantID string) ([]*entity.InventoryLoss, error)
}
