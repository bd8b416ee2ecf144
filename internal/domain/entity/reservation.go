package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
)

// Reservation apartado de mercancía con precios bloqueados; se completa generando una venta.
type Reservation struct {
	ID           string
	CustomerName string
	Status       string
	TotalPrice   decimal.Decimal
	SaleID       string // se llena al completar
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// ReservationDetail línea de una reserva antes de completarse. Item.Price es el precio bloqueado.
type ReservationDetail struct {
	ID            string
	ReservationID string
	Item          LineItem
}
