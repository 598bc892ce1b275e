package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// Ensure Publisher implements appledger.CommitListener.
var _ appledger.CommitListener = (*Publisher)(nil)

// Publisher publica cada commit del ledger en un tópico Kafka para
// consumidores externos (BI, réplicas, integraciones). Es fire-and-forget:
// el writer trabaja en modo asíncrono para no bloquear la sumisión, y una
// falla del broker solo se registra; el evento ya quedó comprometido en el
// log, que sigue siendo la única fuente de verdad.
type Publisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewPublisher construye el publicador contra los brokers indicados. La llave
// del mensaje es el product_id, de modo que los commits de un producto
// conservan su orden dentro de la partición.
func NewPublisher(brokers []string, topic string, log *logger.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 100 * time.Millisecond,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Error().Err(err).Int("mensajes", len(messages)).
						Msg("no se pudo publicar en el stream de commits")
				}
			},
		},
		log: log,
	}
}

// commitMessage es el payload JSON de un commit publicado.
type commitMessage struct {
	EventID    int64     `json:"event_id"`
	EventUID   string    `json:"event_uid"`
	ProductID  string    `json:"product_id"`
	Kind       string    `json:"kind"`
	Quantity   int64     `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
	Reference  string    `json:"reference,omitempty"`
	NewBalance int64     `json:"new_balance"`
}

// EventCommitted encola el commit para publicación. No bloquea.
func (p *Publisher) EventCommitted(ctx context.Context, ev *entity.StockEvent, newBalance int64) {
	payload, err := json.Marshal(commitMessage{
		EventID:    ev.Position,
		EventUID:   ev.ID,
		ProductID:  ev.ProductID,
		Kind:       ev.Kind,
		Quantity:   ev.Quantity,
		OccurredAt: ev.OccurredAt,
		Reference:  ev.Reference,
		NewBalance: newBalance,
	})
	if err != nil {
		p.log.Error().Err(err).Str("event_uid", ev.ID).Msg("commit no serializable")
		return
	}
	msg := kafka.Message{
		Key:   []byte(ev.ProductID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error().Err(err).Str("event_uid", ev.ID).Msg("no se pudo encolar el commit")
	}
}

// Close drena y cierra el writer; para el apagado graceful.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
