package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/application/sales"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

const testUser = "00000000-0000-0000-0000-000000000001"

type fixture struct {
	store        *memory.Store
	repos        inventory.TxRepos
	fulfillment  *sales.FulfillmentUseCase
	reservations *sales.ReservationUseCase
	returns      *sales.ReturnReconciler
	variants     *inventory.VariantUseCase
	category     *entity.Category
	product      *entity.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	log := logger.Nop()
	resolver := inventory.NewConversionResolver(repos.Variants, log)
	ctx := context.Background()

	cat := &entity.Category{ID: uuid.New().String(), Name: "Pinturas"}
	require.NoError(t, repos.Categories.Create(ctx, cat))
	p := &entity.Product{ID: uuid.New().String(), CategoryID: cat.ID, Name: "Vinilo Blanco", CreatedAt: time.Now()}
	require.NoError(t, repos.Products.Create(ctx, p))

	return &fixture{
		store:        store,
		repos:        repos,
		fulfillment:  sales.NewFulfillmentUseCase(store, resolver, log),
		reservations: sales.NewReservationUseCase(store, repos.Reservations, log),
		returns:      sales.NewReturnReconciler(store, log),
		variants:     inventory.NewVariantUseCase(store, repos.Variants, resolver, log),
		category:     cat,
		product:      p,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) variant(t *testing.T, qty int, price, size, unit string) *entity.Variant {
	t.Helper()
	v := &entity.Variant{
		ID:                 uuid.New().String(),
		ProductID:          f.product.ID,
		Size:               size,
		Unit:               unit,
		Color:              "blanco",
		Price:              dec(price),
		SupplierPrice:      dec("1"),
		Quantity:           qty,
		ConversionQuantity: 1,
		CreatedAt:          time.Now(),
	}
	require.NoError(t, f.repos.Variants.Create(context.Background(), v))
	return v
}

func (f *fixture) convertible(t *testing.T, qty int, sourceID string, ratio int) *entity.Variant {
	t.Helper()
	v := f.variant(t, qty, "2", "1/4", "litro")
	v.ConversionSource = sourceID
	v.ConversionQuantity = ratio
	v.AutoConvert = true
	require.NoError(t, f.repos.Variants.Update(context.Background(), v))
	return v
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	v, err := f.repos.Variants.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v.Quantity
}

func (f *fixture) sell(t *testing.T, paid string, items ...dto.CartItemRequest) *sales.Result {
	t.Helper()
	res, err := f.fulfillment.CreateSale(context.Background(), testUser, dto.CreateSaleRequest{Items: items, AmountPaid: dec(paid)})
	require.NoError(t, err)
	return res
}

func item(variantID string, qty int) dto.CartItemRequest {
	return dto.CartItemRequest{VariantID: variantID, Quantity: qty}
}
