package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant es una configuración vendible (unidad, talla, color) de un producto, con su propio stock.
// ConversionSource apunta a otra variante del mismo producto cuyo stock se puede partir
// en ConversionQuantity unidades de esta (ej: 1 rollo -> 12 piezas).
type Variant struct {
	ID                 string
	ProductID          string
	Unit               string
	Size               string
	Color              string
	Dimension          string
	Price              decimal.Decimal // precio de venta
	SupplierPrice      decimal.Decimal // último costo unitario de compra
	Quantity           int             // stock disponible, nunca negativo
	ConversionSource   string          // vacío = sin origen de conversión
	ConversionQuantity int             // unidades producidas por cada unidad del origen (>= 1)
	AutoConvert        bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasConversionSource indica si la variante tiene un origen de conversión asignado.
func (v *Variant) HasConversionSource() bool {
	return v.ConversionSource != ""
}

// SameShape compara la forma (talla, unidad, color) usada para fusionar devoluciones.
func (v *Variant) SameShape(size, unit, color string) bool {
	return v.Size == size && v.Unit == unit && v.Color == color
}
