package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/internal/domain/repository"
	"golang.org/x/text/cases"
)

var (
	_ repository.VariantRepository       = (*variantRepo)(nil)
	_ repository.SupplyBatchRepository   = (*batchRepo)(nil)
	_ repository.InventoryLossRepository = (*lossRepo)(nil)
	_ repository.SaleRepository          = (*saleRepo)(nil)
	_ repository.ReservationRepository   = (*reservationRepo)(nil)
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.CategoryRepository      = (*categoryRepo)(nil)
)

// sameFold compara nombres sin distinguir mayúsculas. Caser no es seguro
// entre goroutines, así que se crea uno por llamada.
func sameFold(a, b string) bool {
	c := cases.Fold()
	return c.String(a) == c.String(b)
}

// ── variants ────────────────────────────────────────────────────────────────

type variantRepo struct{ v *view }

func (r *variantRepo) Create(_ context.Context, v *entity.Variant) error {
	return r.v.write("variants.create", v.ID, func(st *state) error {
		if _, ok := st.variants[v.ID]; ok {
			return domain.ErrDuplicate
		}
		st.variants[v.ID] = *v
		return nil
	})
}

func (r *variantRepo) GetByID(_ context.Context, id string) (*entity.Variant, error) {
	var out *entity.Variant
	err := r.v.read(func(st *state) error {
		if v, ok := st.variants[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya es exclusiva.
func (r *variantRepo) GetForUpdate(ctx context.Context, id string) (*entity.Variant, error) {
	return r.GetByID(ctx, id)
}

func (r *variantRepo) Update(_ context.Context, v *entity.Variant) error {
	return r.v.write("variants.update", v.ID, func(st *state) error {
		if _, ok := st.variants[v.ID]; !ok {
			return domain.NotFound("variant", v.ID)
		}
		st.variants[v.ID] = *v
		return nil
	})
}

func (r *variantRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	return r.v.write("variants.update_quantity", id, func(st *state) error {
		v, ok := st.variants[id]
		if !ok {
			return domain.NotFound("variant", id)
		}
		v.Quantity = quantity
		st.variants[id] = v
		return nil
	})
}

func (r *variantRepo) Delete(_ context.Context, id string) error {
	return r.v.write("variants.delete", id, func(st *state) error {
		delete(st.variants, id)
		return nil
	})
}

func (r *variantRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Variant, error) {
	var list []*entity.Variant
	err := r.v.read(func(st *state) error {
		for _, v := range st.variants {
			if v.ProductID == productID {
				list = append(list, &v)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, err
}

func (r *variantRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	list, err := r.ListByProduct(ctx, productID)
	return len(list), err
}

func (r *variantRepo) FindByShape(ctx context.Context, productID, size, unit, color string) (*entity.Variant, error) {
	list, err := r.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, v := range list {
		if v.SameShape(size, unit, color) {
			return v, nil
		}
	}
	return nil, nil
}

func (r *variantRepo) ClearConversionSource(_ context.Context, sourceID string) error {
	return r.v.write("variants.clear_conversion_source", sourceID, func(st *state) error {
		for id, v := range st.variants {
			if v.ConversionSource == sourceID {
				v.ConversionSource = ""
				st.variants[id] = v
			}
		}
		return nil
	})
}

// ── supply batches ─────────────────────────────────────────────────────────

type batchRepo struct{ v *view }

func (r *batchRepo) Create(_ context.Context, b *entity.SupplyBatch) error {
	return r.v.write("supply_batches.create", b.ID, func(st *state) error {
		st.batches[b.ID] = *b
		return nil
	})
}

func (r *batchRepo) ListByVariant(_ context.Context, variantID string) ([]*entity.SupplyBatch, error) {
	var list []*entity.SupplyBatch
	err := r.v.read(func(st *state) error {
		for _, b := range st.batches {
			if b.VariantID == variantID {
				list = append(list, &b)
			}
		}
		return nil
	})
	sortBatches(list)
	return list, err
}

func (r *batchRepo) UpdatePulledOut(_ context.Context, id string, pulledOut int) error {
	return r.v.write("supply_batches.update_pulled_out", id, func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return domain.NotFound("supply_batch", id)
		}
		b.PulledOutQuantity = pulledOut
		st.batches[id] = b
		return nil
	})
}

func (r *batchRepo) DeleteByVariant(_ context.Context, variantID string) error {
	return r.v.write("supply_batches.delete_by_variant", variantID, func(st *state) error {
		for id, b := range st.batches {
			if b.VariantID == variantID {
				delete(st.batches, id)
			}
		}
		return nil
	})
}

func (r *batchRepo) LatestCategoryByProductName(_ context.Context, productName string) (string, error) {
	var list []*entity.SupplyBatch
	err := r.v.read(func(st *state) error {
		for _, b := range st.batches {
			if b.CategoryName != "" && sameFold(b.ProductName, productName) {
				list = append(list, &b)
			}
		}
		return nil
	})
	if err != nil || len(list) == 0 {
		return "", err
	}
	sortBatches(list)
	return list[len(list)-1].CategoryName, nil
}

func sortBatches(list []*entity.SupplyBatch) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].SuppliedAt.Equal(list[j].SuppliedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].SuppliedAt.Before(list[j].SuppliedAt)
	})
}

// ── inventory loss ─────────────────────────────────────────────────────────

type lossRepo struct{ v *view }

func (r *lossRepo) Create(_ context.Context, loss *entity.InventoryLoss) error {
	return r.v.write("inventory_loss.create", loss.ID, func(st *state) error {
		st.losses = append(st.losses, *loss)
		return nil
	})
}

func (r *lossRepo) ListByVariant(_ context.Context, variantID string) ([]*entity.InventoryLoss, error) {
	var list []*entity.InventoryLoss
	err := r.v.read(func(st *state) error {
		for _, l := range st.losses {
			if l.VariantID == variantID {
				list = append(list, &l)
			}
		}
		return nil
	})
	return list, err
}

// ── sales ──────────────────────────────────────────────────────────────────

type saleRepo struct{ v *view }

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.v.write("sales.create", sale.ID, func(st *state) error {
		s := *sale
		s.Items = append([]entity.LineItem(nil), sale.Items...)
		st.sales[s.ID] = s
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.read(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			s.Items = append([]entity.LineItem(nil), s.Items...)
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) Delete(_ context.Context, id string) error {
	return r.v.write("sales.delete", id, func(st *state) error {
		delete(st.sales, id)
		return nil
	})
}

// ── reservations ───────────────────────────────────────────────────────────

type reservationRepo struct{ v *view }

func (r *reservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	return r.v.write("reservations.create", res.ID, func(st *state) error {
		st.reservations[res.ID] = *res
		return nil
	})
}

func (r *reservationRepo) CreateDetail(_ context.Context, d *entity.ReservationDetail) error {
	return r.v.write("reservation_details.create", d.ID, func(st *state) error {
		st.details[d.ReservationID] = append(st.details[d.ReservationID], *d)
		return nil
	})
}

func (r *reservationRepo) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	var out *entity.Reservation
	err := r.v.read(func(st *state) error {
		if res, ok := st.reservations[id]; ok {
			out = &res
		}
		return nil
	})
	return out, err
}

func (r *reservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r *reservationRepo) ListDetails(_ context.Context, reservationID string) ([]*entity.ReservationDetail, error) {
	var list []*entity.ReservationDetail
	err := r.v.read(func(st *state) error {
		for _, d := range st.details[reservationID] {
			list = append(list, &d)
		}
		return nil
	})
	return list, err
}

func (r *reservationRepo) Update(_ context.Context, res *entity.Reservation) error {
	return r.v.write("reservations.update", res.ID, func(st *state) error {
		if _, ok := st.reservations[res.ID]; !ok {
			return domain.NotFound("reservation", res.ID)
		}
		st.reservations[res.ID] = *res
		return nil
	})
}

// ── products / categories ──────────────────────────────────────────────────

type productRepo struct{ v *view }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write("products.create", p.ID, func(st *state) error {
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) FindByName(_ context.Context, name string) (*entity.Product, error) {
	var exact, folded *entity.Product
	err := r.v.read(func(st *state) error {
		for _, p := range st.products {
			switch {
			case p.Name == name:
				if exact == nil || p.CreatedAt.Before(exact.CreatedAt) {
					exact = &p
				}
			case sameFold(p.Name, name):
				if folded == nil || p.CreatedAt.Before(folded.CreatedAt) {
					folded = &p
				}
			}
		}
		return nil
	})
	if exact != nil {
		return exact, err
	}
	return folded, err
}

type categoryRepo struct{ v *view }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.write("categories.create", c.ID, func(st *state) error {
		st.categories[c.ID] = *c
		return nil
	})
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.read(func(st *state) error {
		for _, c := range st.categories {
			if c.Name == name {
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}
