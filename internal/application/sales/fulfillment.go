package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ferreteria-stock/internal/application/dto"
	"github.com/jhoicas/ferreteria-stock/internal/application/inventory"
	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
	"github.com/shopspring/decimal"
)

// FulfillmentUseCase convierte un carrito (o una reserva) en descuentos de stock y una venta,
// todo en una sola transacción: o se confirma completo o no queda ningún cambio.
type FulfillmentUseCase struct {
	txRunner inventory.TxRunner
	resolver *inventory.ConversionResolver
	log      *logger.Logger
}

// NewFulfillmentUseCase construye el caso de uso.
func NewFulfillmentUseCase(txRunner inventory.TxRunner, resolver *inventory.ConversionResolver, log *logger.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{txRunner: txRunner, resolver: resolver, log: log}
}

// Result salida de una venta confirmada. Variants incluye las variantes vendidas
// y los orígenes de conversión de su cadena, con la cantidad final.
type Result struct {
	Sale        *entity.Sale
	Variants    []*entity.Variant
	Reservation *entity.Reservation
	Details     []*entity.ReservationDetail
}

// Response mapea el resultado a la salida HTTP.
func (r *Result) Response() dto.FulfillmentResponse {
	resp := dto.FulfillmentResponse{
		Sale:     dto.NewSaleResponse(r.Sale),
		Variants: dto.NewVariantResponses(r.Variants),
	}
	if r.Reservation != nil {
		resp.Reservation = dto.NewReservationResponse(r.Reservation, r.Details)
	}
	return resp
}

// line pedido normalizado: variante, cantidad y precio bloqueado (nil = precio actual).
type line struct {
	variantID string
	quantity  int
	price     *decimal.Decimal
}

// CreateSale venta de punto de venta. El monto pagado se compara con el total antes de tocar stock.
func (uc *FulfillmentUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*Result, error) {
	lines, err := linesFromCart(in.Items)
	if err != nil {
		return nil, err
	}
	if in.AmountPaid.IsNegative() {
		return nil, domain.Invalid("amount_paid no puede ser negativo")
	}

	var res *Result
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		total, err := quote(ctx, repos, lines)
		if err != nil {
			return err
		}
		if in.AmountPaid.LessThan(total) {
			return &domain.PaymentError{Total: total, Paid: in.AmountPaid}
		}
		items, variants, err := uc.fulfill(ctx, repos, lines)
		if err != nil {
			return err
		}
		sale := newSale(entity.SaleTypePOS, "", items, in.AmountPaid, userID)
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		res = &Result{Sale: sale, Variants: variants}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", res.Sale.ID).
		Int("items", len(res.Sale.Items)).
		Str("total", res.Sale.TotalPrice.StringFixed(2)).
		Msg("venta registrada")
	return res, nil
}

// CompleteReservation cierra una reserva pendiente generando la venta con los precios bloqueados
// en sus detalles. La reserva pasa a completed en el mismo commit.
func (uc *FulfillmentUseCase) CompleteReservation(ctx context.Context, reservationID, userID string, in dto.CompleteReservationRequest) (*Result, error) {
	if in.AmountPaid != nil && in.AmountPaid.IsNegative() {
		return nil, domain.Invalid("amount_paid no puede ser negativo")
	}

	var res *Result
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		reservation, err := repos.Reservations.GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return domain.NotFound("reservation", reservationID)
		}
		if reservation.Status != entity.ReservationStatusPending {
			return &domain.Error{
				Kind:   domain.ErrInvalidInput,
				Entity: "reservation",
				ID:     reservationID,
				Detail: "la reserva está " + reservation.Status,
			}
		}
		details, err := repos.Reservations.ListDetails(ctx, reservationID)
		if err != nil {
			return err
		}
		if len(details) == 0 {
			return domain.Invalid("la reserva no tiene líneas")
		}
		lines := make([]line, 0, len(details))
		for _, d := range details {
			price := d.Item.Price
			lines = append(lines, line{variantID: d.Item.VariantID, quantity: d.Item.Quantity, price: &price})
		}

		total, err := quote(ctx, repos, lines)
		if err != nil {
			return err
		}
		paid := total
		if in.AmountPaid != nil {
			paid = *in.AmountPaid
		}
		if paid.LessThan(total) {
			return &domain.PaymentError{Total: total, Paid: paid}
		}

		items, variants, err := uc.fulfill(ctx, repos, lines)
		if err != nil {
			return err
		}
		sale := newSale(entity.SaleTypeReservation, reservation.ID, items, paid, userID)
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		now := sale.CreatedAt
		reservation.Status = entity.ReservationStatusCompleted
		reservation.SaleID = sale.ID
		reservation.CompletedAt = &now
		reservation.UpdatedAt = now
		if err := repos.Reservations.Update(ctx, reservation); err != nil {
			return err
		}
		res = &Result{Sale: sale, Variants: variants, Reservation: reservation, Details: details}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("reservation_id", reservationID).
		Str("sale_id", res.Sale.ID).
		Msg("reserva completada")
	return res, nil
}

// quote total del pedido con precios bloqueados o, si no hay, el precio actual. No modifica nada.
func quote(ctx context.Context, repos inventory.TxRepos, lines []line) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lines {
		price := decimal.Zero
		if l.price != nil {
			price = *l.price
		} else {
			v, err := repos.Variants.GetForUpdate(ctx, l.variantID)
			if err != nil {
				return decimal.Zero, err
			}
			if v == nil {
				return decimal.Zero, domain.NotFound("variant", l.variantID)
			}
			price = v.Price
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.quantity))))
	}
	return total, nil
}

// fulfill resuelve conversiones, verifica disponibilidad y descuenta cada línea en orden.
// Cualquier error aborta la transacción del caller.
func (uc *FulfillmentUseCase) fulfill(ctx context.Context, repos inventory.TxRepos, lines []line) ([]entity.LineItem, []*entity.Variant, error) {
	items := make([]entity.LineItem, 0, len(lines))
	for _, l := range lines {
		// Se relee cada vez: una línea anterior pudo consumir esta variante como origen.
		v, err := repos.Variants.GetForUpdate(ctx, l.variantID)
		if err != nil {
			return nil, nil, err
		}
		if v == nil {
			return nil, nil, domain.NotFound("variant", l.variantID)
		}
		if err := uc.resolver.EnsureStock(ctx, repos, v, l.quantity); err != nil {
			return nil, nil, err
		}
		snap, err := snapshotOf(ctx, repos, v)
		if err != nil {
			return nil, nil, err
		}
		if v.Quantity < l.quantity {
			return nil, nil, domain.InsufficientStock(v.ID, snap.ProductName, l.quantity, v.Quantity)
		}
		v.Quantity -= l.quantity
		if err := repos.Variants.UpdateQuantity(ctx, v.ID, v.Quantity); err != nil {
			return nil, nil, err
		}

		price := v.Price
		if l.price != nil {
			price = *l.price
		}
		items = append(items, entity.NewLineItem(v.ID, snap, l.quantity, price))
	}

	variants, err := touchedVariants(ctx, repos, lines)
	if err != nil {
		return nil, nil, err
	}
	return items, variants, nil
}

// touchedVariants estado final de las variantes vendidas y de sus cadenas de conversión.
func touchedVariants(ctx context.Context, repos inventory.TxRepos, lines []line) ([]*entity.Variant, error) {
	seen := make(map[string]struct{})
	var out []*entity.Variant
	for _, l := range lines {
		id := l.variantID
		for id != "" {
			if _, ok := seen[id]; ok {
				break
			}
			seen[id] = struct{}{}
			v, err := repos.Variants.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if v == nil {
				break
			}
			out = append(out, v)
			if !v.AutoConvert {
				break
			}
			id = v.ConversionSource
		}
	}
	return out, nil
}

func snapshotOf(ctx context.Context, repos inventory.TxRepos, v *entity.Variant) (entity.LineItemSnapshot, error) {
	productName, categoryName, err := inventory.ProductLabels(ctx, repos, v.ProductID)
	if err != nil {
		return entity.LineItemSnapshot{}, err
	}
	return entity.LineItemSnapshot{
		ProductName:  productName,
		CategoryName: categoryName,
		Size:         v.Size,
		Unit:         v.Unit,
		Color:        v.Color,
	}, nil
}

func newSale(saleType, reservationID string, items []entity.LineItem, paid decimal.Decimal, userID string) *entity.Sale {
	total := entity.TotalOf(items)
	return &entity.Sale{
		ID:            uuid.New().String(),
		Type:          saleType,
		ReservationID: reservationID,
		Items:         items,
		AmountPaid:    paid,
		TotalPrice:    total,
		Change:        paid.Sub(total),
		CreatedAt:     time.Now(),
		CreatedBy:     userID,
	}
}

func linesFromCart(items []dto.CartItemRequest) ([]line, error) {
	if len(items) == 0 {
		return nil, domain.Invalid("el carrito está vacío")
	}
	lines := make([]line, 0, len(items))
	for _, it := range items {
		if it.VariantID == "" {
			return nil, domain.Invalid("variant_id es obligatorio")
		}
		if it.Quantity <= 0 {
			return nil, domain.Invalid("quantity debe ser mayor a cero")
		}
		if it.LockedPrice != nil && it.LockedPrice.IsNegative() {
			return nil, domain.Invalid("locked_price no puede ser negativo")
		}
		lines = append(lines, line{variantID: it.VariantID, quantity: it.Quantity, price: it.LockedPrice})
	}
	return lines, nil
}
