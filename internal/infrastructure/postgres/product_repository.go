package postgres

import (
	"context"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, COALESCE(category_id::text, ''), name, description, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, category_id, name, description, created_at, updated_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, p.ID, p.CategoryID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	return mapWriteErr("insert product", err)
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, "get product", id)
}

// FindByName coincidencia sin distinguir mayúsculas; la exacta gana, luego la más antigua.
func (r *ProductRepo) FindByName(ctx context.Context, name string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE lower(name) = lower($1)
		ORDER BY (name = $1) DESC, created_at
		LIMIT 1`
	return r.getOne(ctx, query, "find product by name", name)
}

func (r *ProductRepo) getOne(ctx context.Context, query, op, arg string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, wrap(op, err)
	}
	return &p, nil
}
