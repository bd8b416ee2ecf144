package dto

import (
	"time"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CartItemRequest línea del carrito. LockedPrice (si viene) se respeta sobre el precio actual.
type CartItemRequest struct {
	VariantID   string           `json:"variant_id" validate:"required"`
	Quantity    int              `json:"quantity" validate:"required,min=1"`
	LockedPrice *decimal.Decimal `json:"locked_price,omitempty"`
}

// CreateSaleRequest body para POST /api/sales (punto de venta).
type CreateSaleRequest struct {
	Items      []CartItemRequest `json:"items" validate:"required,min=1,dive"`
	AmountPaid decimal.Decimal   `json:"amount_paid"`
}

// LineItemResponse línea de venta con su snapshot.
type LineItemResponse struct {
	VariantID    string          `json:"variant_id"`
	ProductName  string          `json:"product_name"`
	CategoryName string          `json:"category_name,omitempty"`
	Size         string          `json:"size,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Color        string          `json:"color,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	ReservationID string             `json:"reservation_id,omitempty"`
	Items         []LineItemResponse `json:"items"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
	Change        decimal.Decimal    `json:"change"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FulfillmentResponse venta creada + variantes afectadas (incluye orígenes de conversión).
type FulfillmentResponse struct {
	Sale        SaleResponse         `json:"sale"`
	Variants    []VariantResponse    `json:"variants"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
}

// ReturnWarning línea que no se pudo devolver.
type ReturnWarning struct {
	Index     int    `json:"index"`
	VariantID string `json:"variant_id"`
	Reason    string `json:"reason"`
}

// ReturnedItem línea devuelta al inventario.
type ReturnedItem struct {
	Index     int    `json:"index"`
	VariantID string `json:"variant_id"` // variante viva, fusionada o recreada
	Quantity  int    `json:"quantity"`
	Recreated bool   `json:"recreated"`
}

// ReturnResponse resultado de la devolución de una venta.
type ReturnResponse struct {
	SaleID   string          `json:"sale_id"`
	Restored []ReturnedItem  `json:"restored"`
	Warnings []ReturnWarning `json:"warnings,omitempty"`
}

// LineMarginResponse margen de una línea.
type LineMarginResponse struct {
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	Margin      decimal.Decimal `json:"margin"`
}

// SaleMarginResponse margen total de una venta.
type SaleMarginResponse struct {
	SaleID  string               `json:"sale_id"`
	Revenue decimal.Decimal      `json:"revenue"`
	Cost    decimal.Decimal      `json:"cost"`
	Margin  decimal.Decimal      `json:"margin"`
	Lines   []LineMarginResponse `json:"lines"`
}

// NewLineItemResponses mapea las líneas con su snapshot.
func NewLineItemResponses(items []entity.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{
			VariantID:    it.VariantID,
			ProductName:  it.Snapshot.ProductName,
			CategoryName: it.Snapshot.CategoryName,
			Size:         it.Snapshot.Size,
			Unit:         it.Snapshot.Unit,
			Color:        it.Snapshot.Color,
			Quantity:     it.Quantity,
			Price:        it.Price,
			Subtotal:     it.Subtotal,
		})
	}
	return out
}

// NewSaleResponse mapea la venta.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		Type:          s.Type,
		ReservationID: s.ReservationID,
		Items:         NewLineItemResponses(s.Items),
		AmountPaid:    s.AmountPaid,
		TotalPrice:    s.TotalPrice,
		Change:        s.Change,
		CreatedAt:     s.CreatedAt,
	}
}
