package dto

import (
	"time"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateVariantRequest body para POST /api/variants.
type CreateVariantRequest struct {
	ProductID          string          `json:"product_id" validate:"required"`
	Unit               string          `json:"unit" validate:"max=50"`
	Size               string          `json:"size" validate:"max=50"`
	Color              string          `json:"color" validate:"max=50"`
	Dimension          string          `json:"dimension" validate:"max=100"`
	Price              decimal.Decimal `json:"price"`
	SupplierPrice      decimal.Decimal `json:"supplier_price"`
	Quantity           int             `json:"quantity" validate:"min=0"`
	ConversionSource   string          `json:"conversion_source,omitempty"`
	ConversionQuantity int             `json:"conversion_quantity" validate:"omitempty,min=1"`
	AutoConvert        bool            `json:"auto_convert"`
}

// UpdateVariantRequest body para PUT /api/variants/:id (campos nil = sin cambio).
// ConversionSource = "" quita el origen de conversión.
type UpdateVariantRequest struct {
	Unit               *string          `json:"unit" validate:"omitempty,max=50"`
	Size               *string          `json:"size" validate:"omitempty,max=50"`
	Color              *string          `json:"color" validate:"omitempty,max=50"`
	Dimension          *string          `json:"dimension" validate:"omitempty,max=100"`
	Price              *decimal.Decimal `json:"price"`
	SupplierPrice      *decimal.Decimal `json:"supplier_price"`
	Quantity           *int             `json:"quantity" validate:"omitempty,min=0"`
	ConversionSource   *string          `json:"conversion_source"`
	ConversionQuantity *int             `json:"conversion_quantity" validate:"omitempty,min=1"`
	AutoConvert        *bool            `json:"auto_convert"`
}

// RestockRequest body para POST /api/variants/:id/restock.
type RestockRequest struct {
	Quantity      int             `json:"quantity" validate:"required,min=1"`
	SupplierPrice decimal.Decimal `json:"supplier_price"`
}

// PullOutRequest body para POST /api/variants/:id/pull-out.
type PullOutRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Reason   string `json:"reason" validate:"max=200"`
}

// DeleteVariantRequest motivo registrado en la pérdida de inventario al borrar con stock.
type DeleteVariantRequest struct {
	Reason string `json:"reason" validate:"max=200"`
	Notes  string `json:"notes" validate:"max=1000"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	Unit               string          `json:"unit"`
	Size               string          `json:"size"`
	Color              string          `json:"color"`
	Dimension          string          `json:"dimension"`
	Price              decimal.Decimal `json:"price"`
	SupplierPrice      decimal.Decimal `json:"supplier_price"`
	Quantity           int             `json:"quantity"`
	ConversionSource   string          `json:"conversion_source,omitempty"`
	ConversionQuantity int             `json:"conversion_quantity"`
	AutoConvert        bool            `json:"auto_convert"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// VariantCostResponse costo promedio ponderado de una variante.
type VariantCostResponse struct {
	VariantID           string          `json:"variant_id"`
	WeightedAverageCost decimal.Decimal `json:"weighted_average_cost"`
}

// InventoryLossResponse pérdida registrada al borrar una variante con stock.
type InventoryLossResponse struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
}

// NewVariantResponse mapea la entidad a la salida HTTP.
func NewVariantResponse(v *entity.Variant) VariantResponse {
	return VariantResponse{
		ID:                 v.ID,
		ProductID:          v.ProductID,
		Unit:               v.Unit,
		Size:               v.Size,
		Color:              v.Color,
		Dimension:          v.Dimension,
		Price:              v.Price,
		SupplierPrice:      v.SupplierPrice,
		Quantity:           v.Quantity,
		ConversionSource:   v.ConversionSource,
		ConversionQuantity: v.ConversionQuantity,
		AutoConvert:        v.AutoConvert,
		UpdatedAt:          v.UpdatedAt,
	}
}

// NewVariantResponses mapea una lista de variantes.
func NewVariantResponses(list []*entity.Variant) []VariantResponse {
	out := make([]VariantResponse, 0, len(list))
	for _, v := range list {
		out = append(out, NewVariantResponse(v))
	}
	return out
}
