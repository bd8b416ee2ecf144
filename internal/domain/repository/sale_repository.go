package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale (líneas embebidas).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Delete(ctx context.Context, id string) error
}
