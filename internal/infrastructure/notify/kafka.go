package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/ferreteria-stock/internal/domain"
)

// messageWriter lo que se usa de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publica cada evento en el tópico prefix+tópico, con la acción como key.
type KafkaNotifier struct {
	writer messageWriter
	prefix string
}

// Lote por defecto del writer. Publish es síncrono: cada evento espera a que su lote se envíe.
const (
	defaultBatchSize    = 100
	defaultBatchTimeout = 10 * time.Millisecond
)

// NewKafkaNotifier crea el writer contra los brokers dados. Valores no positivos usan el lote por defecto.
func NewKafkaNotifier(brokers []string, prefix string, batchSize int, batchTimeout time.Duration) *KafkaNotifier {
	return &KafkaNotifier{writer: newKafkaWriter(brokers, batchSize, batchTimeout), prefix: prefix}
}

func newKafkaWriter(brokers []string, batchSize int, batchTimeout time.Duration) *kafka.Writer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              batchSize,
		BatchTimeout:           batchTimeout,
	}
}

func (n *KafkaNotifier) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Topic: n.prefix + event.Topic,
		Key:   []byte(strings.Join(event.EntityIDs, ",")),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w", event.Topic, err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
