package inventory

import (
	"time"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// estimatedCostRatio fracción del precio de venta usada como costo cuando el histórico no existe.
var estimatedCostRatio = decimal.NewFromFloat(0.8)

// WeightedAverageCost costo promedio ponderado del stock que sigue disponible en los lotes.
// CostoPromedio = Σ(disponible_i × precio_i) / Σ(disponible_i), solo lotes con disponible > 0.
// Si ningún lote tiene disponibilidad devuelve fallback (supplierPrice actual de la variante).
func WeightedAverageCost(batches []*entity.SupplyBatch, fallback decimal.Decimal) decimal.Decimal {
	num := decimal.Zero
	units := decimal.Zero
	for _, b := range batches {
		avail := b.Available()
		if avail <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(avail))
		num = num.Add(qty.Mul(b.SupplierPrice))
		units = units.Add(qty)
	}
	if units.IsZero() {
		return fallback
	}
	return num.Div(units)
}

// PointInTimeCost precio del lote más reciente recibido en o antes de asOf.
// Sin lotes anteriores devuelve fallback (supplierPrice de la variante, o cero si no existe).
func PointInTimeCost(batches []*entity.SupplyBatch, asOf time.Time, fallback decimal.Decimal) decimal.Decimal {
	var latest *entity.SupplyBatch
	for _, b := range batches {
		if b.SuppliedAt.After(asOf) {
			continue
		}
		if latest == nil || b.SuppliedAt.After(latest.SuppliedAt) {
			latest = b
		}
	}
	if latest == nil {
		return fallback
	}
	return latest.SupplierPrice
}

// LossAmount valor de una pérdida: cantidad × costo unitario, redondeado a 2 decimales.
func LossAmount(quantity int, unitCost decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(unitCost).Round(2)
}

// EstimatedSupplierPrice costo estimado (80% del precio de venta) para variantes reconstruidas.
func EstimatedSupplierPrice(salePrice decimal.Decimal) decimal.Decimal {
	return salePrice.Mul(estimatedCostRatio).Round(2)
}
