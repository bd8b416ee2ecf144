package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyBatch es una entrada inmutable del libro de abastecimiento.
// Solo PulledOutQuantity cambia, y únicamente por retiros explícitos (no por ventas).
// ProductName y CategoryName se copian al recibir para poder rastrear la categoría histórica.
type SupplyBatch struct {
	ID                string
	VariantID         string
	ProductName       string
	CategoryName      string
	Quantity          int
	SupplierPrice     decimal.Decimal
	TotalCost         decimal.Decimal
	SuppliedAt        time.Time
	PulledOutQuantity int
}

// Available cantidad del lote que sigue en inventario.
func (b *SupplyBatch) Available() int {
	return b.Quantity - b.PulledOutQuantity
}
