package dto

import (
	"time"

	"github.com/jhoicas/ferreteria-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateReservationRequest body para POST /api/reservations.
type CreateReservationRequest struct {
	CustomerName string            `json:"customer_name" validate:"required,max=200"`
	Items        []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CompleteReservationRequest body para POST /api/reservations/:id/complete.
// AmountPaid nil = se asume pagado el total.
type CompleteReservationRequest struct {
	AmountPaid *decimal.Decimal `json:"amount_paid,omitempty"`
}

// ReservationResponse salida de una reserva.
type ReservationResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customer_name"`
	Status       string             `json:"status"`
	TotalPrice   decimal.Decimal    `json:"total_price"`
	SaleID       string             `json:"sale_id,omitempty"`
	Items        []LineItemResponse `json:"items,omitempty"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}

// NewReservationResponse mapea la reserva y sus detalles (details puede ser nil).
func NewReservationResponse(r *entity.Reservation, details []*entity.ReservationDetail) *ReservationResponse {
	items := make([]entity.LineItem, 0, len(details))
	for _, d := range details {
		items = append(items, d.Item)
	}
	return &ReservationResponse{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		Status:       r.Status,
		TotalPrice:   r.TotalPrice,
		SaleID:       r.SaleID,
		Items:        NewLineItemResponses(items),
		CompletedAt:  r.CompletedAt,
	}
}
