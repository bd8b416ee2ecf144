package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
)

// UseCase alta y consulta de categorías y productos. Las variantes se manejan en inventory.
type UseCase struct {
	txRunner inventory.TxRunner
	repos    inventory.TxRepos
}

// NewUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewUseCase(txRunner inventory.TxRunner, repos inventory.TxRepos) *UseCase {
	return &UseCase{txRunner: txRunner, repos: repos}
}

// CreateCategory crea una categoría. El nombre es único (coincidencia exacta).
func (uc *UseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*entity.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name es obligatorio")
	}
	var out *entity.Category
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		existing, err := repos.Categories.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.Error{Kind: domain.ErrDuplicate, Entity: "category", ID: existing.ID}
		}
		out = newCategory(name)
		return repos.Categories.Create(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct crea un producto. Rechaza nombres que ya existen sin distinguir mayúsculas.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, *entity.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil, domain.Invalid("name es obligatorio")
	}
	if in.CategoryID == "" && strings.TrimSpace(in.CategoryName) == "" {
		return nil, nil, domain.Invalid("category_id o category_name es obligatorio")
	}
	var (
		product  *entity.Product
		category *entity.Category
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		existing, err := repos.Products.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.Error{Kind: domain.ErrDuplicate, Entity: "product", ID: existing.ID}
		}
		category, err = categoryFor(ctx, repos, in)
		if err != nil {
			return err
		}
		now := time.Now()
		product = &entity.Product{
			ID:          uuid.New().String(),
			CategoryID:  category.ID,
			Name:        name,
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, nil, err
	}
	return product, category, nil
}

// GetProduct devuelve el producto, su categoría y sus variantes.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*entity.Product, *entity.Category, []*entity.Variant, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if p == nil {
		return nil, nil, nil, domain.NotFound("product", id)
	}
	c, err := uc.repos.Categories.GetByID(ctx, p.CategoryID)
	if err != nil {
		return nil, nil, nil, err
	}
	variants, err := uc.repos.Variants.ListByProduct(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, c, variants, nil
}

func categoryFor(ctx context.Context, repos inventory.TxRepos, in dto.CreateProductRequest) (*entity.Category, error) {
	if in.CategoryID != "" {
		c, err := repos.Categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.NotFound("category", in.CategoryID)
		}
		return c, nil
	}
	name := strings.TrimSpace(in.CategoryName)
	c, err := repos.Categories.GetByName(ctx, name)
	if err != nil || c != nil {
		return c, err
	}
	c = newCategory(name)
	if err := repos.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func newCategory(name string) *entity.Category {
	now := time.Now()
	return &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
}
