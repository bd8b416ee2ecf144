package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	costing "github.com/jhoicas/ferreteria-stock/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CostBasisTracker calcula el costo del stock a partir del libro de abastecimiento.
// Las lecturas no modifican el libro.
type CostBasisTracker struct {
	variants repository.VariantRepository
	batches  repository.SupplyBatchRepository
	sales    repository.SaleRepository
}

// NewCostBasisTracker construye el tracker sobre repositorios de lectura.
func NewCostBasisTracker(
	variants repository.VariantRepository,
	batches repository.SupplyBatchRepository,
	sales repository.SaleRepository,
) *CostBasisTracker {
	return &CostBasisTracker{variants: variants, batches: batches, sales: sales}
}

// WeightedAverageCost costo promedio ponderado del stock disponible de la variante.
func (t *CostBasisTracker) WeightedAverageCost(ctx context.Context, variantID string) (decimal.Decimal, error) {
	v, err := t.variants.GetByID(ctx, variantID)
	if err != nil {
		return decimal.Zero, err
	}
	if v == nil {
		return decimal.Zero, domain.NotFound("variant", variantID)
	}
	return weightedAverageCost(ctx, t.batches, v)
}

// weightedAverageCost versión usable dentro de una transacción (batches atado a la tx).
func weightedAverageCost(ctx context.Context, batches repository.SupplyBatchRepository, v *entity.Variant) (decimal.Decimal, error) {
	list, err := batches.ListByVariant(ctx, v.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return costing.WeightedAverageCost(list, v.SupplierPrice), nil
}

// PointInTimeCost costo del lote más reciente recibido en o antes de asOf.
// Variante inexistente => 0.
func (t *CostBasisTracker) PointInTimeCost(ctx context.Context, variantID string, asOf time.Time) (decimal.Decimal, error) {
	v, err := t.variants.GetByID(ctx, variantID)
	if err != nil {
		return decimal.Zero, err
	}
	if v == nil {
		return decimal.Zero, nil
	}
	list, err := t.batches.ListByVariant(ctx, variantID)
	if err != nil {
		return decimal.Zero, err
	}
	return costing.PointInTimeCost(list, asOf, v.SupplierPrice), nil
}

// SaleMargin margen por línea de una venta usando el costo vigente a la fecha de la venta.
func (t *CostBasisTracker) SaleMargin(ctx context.Context, saleID string) (*dto.SaleMarginResponse, error) {
	sale, err := t.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("sale", saleID)
	}
	resp := &dto.SaleMarginResponse{SaleID: sale.ID, Lines: make([]dto.LineMarginResponse, 0, len(sale.Items))}
	for _, it := range sale.Items {
		unitCost, err := t.PointInTimeCost(ctx, it.VariantID, sale.CreatedAt)
		if err != nil {
			return nil, err
		}
		cost := unitCost.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		line := dto.LineMarginResponse{
			VariantID:   it.VariantID,
			ProductName: it.Snapshot.ProductName,
			Quantity:    it.Quantity,
			Revenue:     it.Subtotal,
			Cost:        cost,
			Margin:      it.Subtotal.Sub(cost),
		}
		resp.Lines = append(resp.Lines, line)
		resp.Revenue = resp.Revenue.Add(line.Revenue)
		resp.Cost = resp.Cost.Add(line.Cost)
	}
	resp.Margin = resp.Revenue.Sub(resp.Cost)
	return resp, nil
}
