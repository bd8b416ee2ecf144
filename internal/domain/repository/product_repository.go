package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// FindByName busca sin distinguir mayúsculas; si hay coincidencia exacta la prefiere.
	FindByName(ctx context.Context, name string) (*entity.Product, error)
}
