package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

type fixture struct {
	store    *memory.Store
	repos    inventory.TxRepos
	resolver *inventory.ConversionResolver
	product  *entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	ctx := context.Background()

	cat := &entity.Category{ID: uuid.New().String(), Name: "Cables"}
	require.NoError(t, repos.Categories.Create(ctx, cat))
	p := &entity.Product{ID: uuid.New().String(), CategoryID: cat.ID, Name: "Cable THHN 12"}
	require.NoError(t, repos.Products.Create(ctx, p))

	return &fixture{
		store:    store,
		repos:    repos,
		resolver: inventory.NewConversionResolver(repos.Variants, logger.Nop()),
		product:  p,
	}
}

// variant crea una variante del producto del fixture. source "" = sin conversión.
func (f *fixture) variant(t *testing.T, qty int, source string, ratio int, auto bool) *entity.Variant {
	t.Helper()
	return f.variantOf(t, f.product.ID, qty, source, ratio, auto)
}

func (f *fixture) variantOf(t *testing.T, productID string, qty int, source string, ratio int, auto bool) *entity.Variant {
	t.Helper()
	v := &entity.Variant{
		ID:                 uuid.New().String(),
		ProductID:          productID,
		Unit:               "pieza",
		Price:              decimal.NewFromInt(10),
		SupplierPrice:      decimal.NewFromInt(6),
		Quantity:           qty,
		ConversionSource:   source,
		ConversionQuantity: ratio,
		AutoConvert:        auto,
		CreatedAt:          time.Now(),
	}
	require.NoError(t, f.repos.Variants.Create(context.Background(), v))
	return v
}

// link asigna el origen de conversión sin validar (para fabricar ciclos ya rotos).
func (f *fixture) link(t *testing.T, v *entity.Variant, source string) {
	t.Helper()
	v.ConversionSource = source
	require.NoError(t, f.repos.Variants.Update(context.Background(), v))
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	v, err := f.repos.Variants.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v.Quantity
}
