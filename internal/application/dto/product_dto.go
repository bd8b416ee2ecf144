package dto

import (
	"time"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto. Se indica category_id o category_name;
// si el nombre no existe la categoría se crea.
type CreateProductRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Description  string `json:"description" validate:"max=1000"`
	CategoryID   string `json:"category_id" validate:"required_without=CategoryName"`
	CategoryName string `json:"category_name" validate:"omitempty,max=100"`
}

// ProductResponse salida de un producto con sus variantes.
type ProductResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	CategoryID   string            `json:"category_id"`
	CategoryName string            `json:"category_name,omitempty"`
	Variants     []VariantResponse `json:"variants"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NewCategoryResponse mapea la entidad a la salida HTTP.
func NewCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// NewProductResponse mapea el producto, su categoría (puede ser nil) y sus variantes.
func NewProductResponse(p *entity.Product, c *entity.Category, variants []*entity.Variant) ProductResponse {
	out := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Variants:    NewVariantResponses(variants),
		CreatedAt:   p.CreatedAt,
	}
	if c != nil {
		out.CategoryName = c.Name
	}
	return out
}
