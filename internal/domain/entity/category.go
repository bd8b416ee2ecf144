package entity

import "time"

// RecreatedCategoryName categoría centinela para productos reconstruidos sin categoría conocida.
const RecreatedCategoryName = "Recreated Products"

// Category representa una categoría de productos.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
