package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Logistica-api/internal/application/fulfillment"
	"github.com/jhoicas/Logistica-api/internal/domain/event"
)

var _ fulfillment.EventPublisher = (*Publisher)(nil)

// Publisher publica eventos de cumplimiento en un tópico Kafka.
// La clave del mensaje es el ID del pedido, así todos los eventos de un mismo
// pedido caen en la misma partición y conservan su orden.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher construye el publicador sobre los brokers indicados.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// Publish serializa el evento como JSON y lo escribe en el tópico.
func (p *Publisher) Publish(ctx context.Context, evt event.FulfillmentEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Close cierra el writer subyacente.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
