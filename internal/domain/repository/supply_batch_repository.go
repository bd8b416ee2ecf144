package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// SupplyBatchRepository define el puerto para el libro de abastecimiento.
type SupplyBatchRepository interface {
	Create(ctx context.Context, b *entity.SupplyBatch) error
	// ListByVariant devuelve los lotes ordenados por SuppliedAt ascendente.
	ListByVariant(ctx context.Context, variantID string) ([]*entity.SupplyBatch, error)
	UpdatePulledOut(ctx context.Context, id string, pulledOut int) error
	DeleteByVariant(ctx context.Context, variantID string) error
	// LatestCategoryByProductName categoría registrada en el lote más reciente de ese producto ("" si no hay).
	LatestCategoryByProductName(ctx context.Context, productName string) (string, error)
}
