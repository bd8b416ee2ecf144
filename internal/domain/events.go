package domain

import "time"

// Tópicos de notificación de cambios. La capa que llama al motor los anuncia después del commit.
const (
	TopicInventory    = "inventory"
	TopicSales        = "sales"
	TopicReservations = "reservations"
)

// ChangeEvent es el mensaje publicado en un tópico tras un commit exitoso.
type ChangeEvent struct {
	Topic      string    `json:"topic"`
	Action     string    `json:"action"` // sale.created, sale.returned, variant.updated, ...
	EntityIDs  []string  `json:"entity_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}
