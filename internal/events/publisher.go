package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"

	"profile-service/internal/models"
)

// Publisher mirrors recorded interaction events to Kafka for downstream
// consumers. Publishing is best-effort; the event store is the source of
// truth and callers only log publish failures.
type Publisher struct {
	writer *kafkago.Writer
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
		Async:        false,
	}
	return &Publisher{writer: w, topic: topic}
}

func (p *Publisher) PublishEvent(ctx context.Context, ev *models.InteractionEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafkago.Message{
		Key:   []byte(ev.ProfileID),
		Value: b,
		Time:  ev.CreatedAt,
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
