package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-stock/internal/application/catalog"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/memory"
)

func newUseCase() (*catalog.UseCase, *memory.Store) {
	store := memory.New()
	return catalog.NewUseCase(store, store.Repos()), store
}

func TestCreateProduct_CreaCategoriaPorNombre(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	p, c, err := uc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Martillo 16oz", CategoryName: "Herramientas"})
	require.NoError(t, err)
	assert.Equal(t, "Herramientas", c.Name)
	assert.Equal(t, c.ID, p.CategoryID)

	p2, c2, err := uc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Alicate", CategoryName: "Herramientas"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, c2.ID, "reusa la categoría existente")

	got, cat, variants, err := uc.GetProduct(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicate", got.Name)
	assert.Equal(t, "Herramientas", cat.Name)
	assert.Empty(t, variants)
}

func TestCreateProduct_Rechazos(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	_, _, err := uc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Serrucho", CategoryName: "Herramientas"})
	require.NoError(t, err)

	_, _, err = uc.CreateProduct(ctx, dto.CreateProductRequest{Name: "SERRUCHO", CategoryName: "Herramientas"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, _, err = uc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Broca", CategoryID: "no-existe"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, _, err = uc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Broca"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, _, _, err = uc.GetProduct(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	store.SetFault(func(op, _ string) error {
		if op == "products.create" {
			return errors.New("fallo de disco")
		}
		return nil
	})
	_, _, err = uc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Taladro", CategoryName: "Eléctricas"})
	require.Error(t, err)
	cat, err := store.Repos().Categories.GetByName(ctx, "Eléctricas")
	require.NoError(t, err)
	assert.Nil(t, cat, "la categoría creada en la misma transacción se revierte")
}

func TestCreateCategory_Duplicada(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Plomería"})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Plomería"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	_, err = uc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "  "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
