package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/memory"
)

func seedVariant(t *testing.T, s *memory.Store, id string, qty int) {
	t.Helper()
	require.NoError(t, s.Repos().Variants.Create(context.Background(), &entity.Variant{
		ID: id, ProductID: "p1", Quantity: qty, Price: decimal.NewFromInt(1), ConversionQuantity: 1,
	}))
}

func TestRun_RollbackDescartaCambios(t *testing.T) {
	s := memory.New()
	seedVariant(t, s, "v1", 5)
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(ctx context.Context, repos inventory.TxRepos) error {
		require.NoError(t, repos.Variants.UpdateQuantity(ctx, "v1", 1))
		v, err := repos.Variants.GetByID(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, 1, v.Quantity, "la transacción ve sus propias escrituras")
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Repos().Variants.GetByID(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, 5, v.Quantity)
}

func TestRun_CommitYContextoCancelado(t *testing.T) {
	s := memory.New()
	seedVariant(t, s, "v1", 5)

	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, repos inventory.TxRepos) error {
		return repos.Variants.UpdateQuantity(ctx, "v1", 2)
	}))
	v, _ := s.Repos().Variants.GetByID(context.Background(), "v1")
	assert.Equal(t, 2, v.Quantity)

	ctx, cancel := context.WithCancel(context.Background())
	err := s.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		cancel()
		return repos.Variants.UpdateQuantity(ctx, "v1", 0)
	})
	require.ErrorIs(t, err, context.Canceled)
	v, _ = s.Repos().Variants.GetByID(context.Background(), "v1")
	assert.Equal(t, 2, v.Quantity)
}

func TestSavepoint_SoloDeshaceLoPropio(t *testing.T) {
	s := memory.New()
	seedVariant(t, s, "v1", 5)
	seedVariant(t, s, "v2", 5)

	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, repos inventory.TxRepos) error {
		require.NoError(t, repos.Variants.UpdateQuantity(ctx, "v1", 4))
		err := repos.Savepoint(ctx, func(ctx context.Context, sp inventory.TxRepos) error {
			require.NoError(t, sp.Variants.UpdateQuantity(ctx, "v2", 0))
			return errors.New("falla la línea")
		})
		require.Error(t, err)
		return nil
	}))

	v1, _ := s.Repos().Variants.GetByID(context.Background(), "v1")
	v2, _ := s.Repos().Variants.GetByID(context.Background(), "v2")
	assert.Equal(t, 4, v1.Quantity)
	assert.Equal(t, 5, v2.Quantity)
}

func TestFaultYContadorDeEscrituras(t *testing.T) {
	s := memory.New()
	seedVariant(t, s, "v1", 5)
	assert.Equal(t, 1, s.Writes())

	s.SetFault(func(op, id string) error {
		if op == "variants.update_quantity" && id == "v1" {
			return errors.New("fallo inyectado")
		}
		return nil
	})
	err := s.Repos().Variants.UpdateQuantity(context.Background(), "v1", 3)
	require.Error(t, err)
	assert.Equal(t, 1, s.Writes(), "la escritura rechazada no cuenta")
}

func TestProductFindByName_PrefiereCoincidenciaExacta(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	repos := s.Repos()
	now := time.Now()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-lower", Name: "martillo", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-exact", Name: "Martillo", CreatedAt: now}))

	p, err := repos.Products.FindByName(ctx, "Martillo")
	require.NoError(t, err)
	assert.Equal(t, "p-exact", p.ID)

	p, err = repos.Products.FindByName(ctx, "MARTILLO")
	require.NoError(t, err)
	assert.Equal(t, "p-lower", p.ID, "sin exacta gana la más antigua")

	p, err = repos.Products.FindByName(ctx, "serrucho")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestBatches_OrdenYCategoriaHistorica(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	repos := s.Repos()
	t0 := time.Now()
	require.NoError(t, repos.Batches.Create(ctx, &entity.SupplyBatch{ID: "b2", VariantID: "v", ProductName: "Lija", CategoryName: "Nueva", SuppliedAt: t0}))
	require.NoError(t, repos.Batches.Create(ctx, &entity.SupplyBatch{ID: "b1", VariantID: "v", ProductName: "Lija", CategoryName: "Vieja", SuppliedAt: t0.Add(-time.Hour)}))

	list, err := repos.Batches.ListByVariant(ctx, "v")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b1", list[0].ID)

	name, err := repos.Batches.LatestCategoryByProductName(ctx, "LIJA")
	require.NoError(t, err)
	assert.Equal(t, "Nueva", name)
}
