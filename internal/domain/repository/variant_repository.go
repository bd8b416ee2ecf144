package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// VariantRepository define el puerto de persistencia para Variant.
// GetByID/GetForUpdate/FindByShape devuelven (nil, nil) cuando no existe.
type VariantRepository interface {
	Create(ctx context.Context, v *entity.Variant) error
	GetByID(ctx context.Context, id string) (*entity.Variant, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Variant, error)
	Update(ctx context.Context, v *entity.Variant) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.Variant, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	FindByShape(ctx context.Context, productID, size, unit, color string) (*entity.Variant, error)
	// ClearConversionSource quita el origen de conversión de las variantes que apuntan a sourceID.
	ClearConversionSource(ctx context.Context, sourceID string) error
}
