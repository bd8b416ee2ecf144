package entity

import "time"

// Product agrupa variantes bajo un nombre comercial y una categoría.
type Product struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
