package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByName coincidencia exacta de nombre.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
}
