package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/inventory"
)

func batch(qty, pulled int, price string, at time.Time) *entity.SupplyBatch {
	return &entity.SupplyBatch{
		Quantity:          qty,
		PulledOutQuantity: pulled,
		SupplierPrice:     decimal.RequireFromString(price),
		SuppliedAt:        at,
	}
}

func TestWeightedAverageCost_PonderaPorDisponible(t *testing.T) {
	now := time.Now()
	batches := []*entity.SupplyBatch{
		batch(10, 0, "5", now),
		batch(10, 5, "7", now),
	}
	cost := inventory.WeightedAverageCost(batches, decimal.NewFromInt(99))
	// (10×5 + 5×7) / 15 = 5.666...
	assert.Equal(t, "5.67", cost.StringFixed(2))
}

func TestWeightedAverageCost_IgnoraLotesAgotados(t *testing.T) {
	now := time.Now()
	batches := []*entity.SupplyBatch{
		batch(10, 10, "100", now),
		batch(4, 0, "3", now),
	}
	cost := inventory.WeightedAverageCost(batches, decimal.Zero)
	assert.True(t, cost.Equal(decimal.NewFromInt(3)))
}

func TestWeightedAverageCost_FallbackSinDisponibilidad(t *testing.T) {
	batches := []*entity.SupplyBatch{batch(2, 2, "8", time.Now())}
	fallback := decimal.RequireFromString("12.50")

	assert.True(t, inventory.WeightedAverageCost(batches, fallback).Equal(fallback))
	assert.True(t, inventory.WeightedAverageCost(nil, fallback).Equal(fallback))
}

func TestPointInTimeCost(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	batches := []*entity.SupplyBatch{
		batch(5, 0, "10", day(1)),
		batch(5, 0, "11", day(10)),
		batch(5, 0, "15", day(20)),
	}
	fallback := decimal.NewFromInt(7)

	assert.Equal(t, "11", inventory.PointInTimeCost(batches, day(15), fallback).String())
	assert.Equal(t, "15", inventory.PointInTimeCost(batches, day(20), fallback).String())
	assert.Equal(t, "7", inventory.PointInTimeCost(batches, day(1).Add(-time.Hour), fallback).String())
}

func TestLossAmountYCostoEstimado(t *testing.T) {
	wac := decimal.NewFromInt(85).Div(decimal.NewFromInt(15))
	assert.Equal(t, "17.00", inventory.LossAmount(3, wac).StringFixed(2))
	assert.Equal(t, "8.00", inventory.EstimatedSupplierPrice(decimal.NewFromInt(10)).StringFixed(2))
	assert.Equal(t, "9.99", inventory.EstimatedSupplierPrice(decimal.RequireFromString("12.49")).StringFixed(2))
}
