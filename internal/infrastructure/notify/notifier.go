package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/ferreteria-stock/internal/domain"
	"github.com/jhoicas/ferreteria-stock/pkg/logger"
)

// Notifier anuncia un cambio ya confirmado. Un fallo aquí nunca revierte la operación.
type Notifier interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Close() error
}

// NewEvent arma el evento con la hora actual.
func NewEvent(topic, action string, ids ...string) domain.ChangeEvent {
	return domain.ChangeEvent{Topic: topic, Action: action, EntityIDs: ids, OccurredAt: time.Now().UTC()}
}

func encode(event domain.ChangeEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Noop descarta los eventos (NOTIFIER=none y tests).
type Noop struct{}

func (Noop) Publish(context.Context, domain.ChangeEvent) error { return nil }
func (Noop) Close() error                                      { return nil }

// Broadcast publica los eventos en orden. Los fallos solo se registran en el log.
func Broadcast(ctx context.Context, n Notifier, log *logger.Logger, events ...domain.ChangeEvent) {
	for _, ev := range events {
		if err := n.Publish(ctx, ev); err != nil {
			log.Warn().Err(err).Str("topic", ev.Topic).Str("action", ev.Action).Msg("no se pudo anunciar el cambio")
		}
	}
}
