package notify

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/ferreteria-stock/internal/domain"
)

// RedisNotifier publica cada evento en el canal Pub/Sub prefix+tópico.
type RedisNotifier struct {
	client *redis.Client
	prefix string
}

// NewRedisNotifier crea el cliente; la conexión se valida con Ping.
func NewRedisNotifier(addr, password string, db int, prefix string) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisNotifier{client: client, prefix: prefix}
}

func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

// Channel nombre del canal de un tópico.
func (n *RedisNotifier) Channel(topic string) string {
	return n.prefix + topic
}

func (n *RedisNotifier) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}
	if err := n.client.Publish(ctx, n.Channel(event.Topic), payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", event.Topic, err)
	}
	return nil
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
