package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLoss registra stock que sale del inventario sin venta. Solo se agrega, nunca se modifica.
// Amount = Quantity x costo promedio ponderado al momento de la pérdida (2 decimales).
type InventoryLoss struct {
	ID          string
	VariantID   string
	ProductName string
	Quantity    int
	Amount      decimal.Decimal
	Reason      string
	Notes       string
	CreatedAt   time.Time
	CreatedBy   string
}
