package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venta.
const (
	SaleTypePOS         = "pos"
	SaleTypeReservation = "reservation"
)

// LineItemSnapshot copia desnormalizada de los datos descriptivos al momento de la transacción.
// Es un valor: sigue siendo válido aunque el producto, la categoría o la variante se borren después.
type LineItemSnapshot struct {
	ProductName  string `json:"product_name"`
	CategoryName string `json:"category_name,omitempty"`
	Size         string `json:"size,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Color        string `json:"color,omitempty"`
}

// LineItem línea de una venta o de una reserva. Price es el precio bloqueado al crear la transacción.
type LineItem struct {
	VariantID string           `json:"variant_id"`
	Snapshot  LineItemSnapshot `json:"snapshot"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
}

// NewLineItem construye la línea calculando Subtotal = Price x Quantity.
func NewLineItem(variantID string, snap LineItemSnapshot, quantity int, price decimal.Decimal) LineItem {
	return LineItem{
		VariantID: variantID,
		Snapshot:  snap,
		Quantity:  quantity,
		Price:     price,
		Subtotal:  price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// Sale registro de venta. Inmutable: una devolución la borra por completo.
type Sale struct {
	ID            string
	Type          string // pos, reservation
	ReservationID string
	Items         []LineItem
	AmountPaid    decimal.Decimal
	TotalPrice    decimal.Decimal
	Change        decimal.Decimal
	CreatedAt     time.Time
	CreatedBy     string
}

// TotalOf suma los subtotales de las líneas.
func TotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}
