// Package events publishes ticket sync events to Kafka on a best-effort
// basis. Publishing never fails the sync pipeline: broker errors are
// logged and dropped, and an unconfigured producer is a no-op, so local
// and test deployments run without a broker.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// TicketEventProducer is the narrow contract the sync service depends on,
// so tests can substitute a recorder.
type TicketEventProducer interface {
	ProduceTicketEvent(ctx context.Context, event string, payload map[string]any)
}

// Producer writes ticket events to a Kafka topic.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer returns a producer for the given brokers and topic. With no
// brokers or an empty topic every method is a no-op.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// ProduceTicketEvent sends one event to the topic. The event name is
// merged into the payload under "event".
func (p *Producer) ProduceTicketEvent(ctx context.Context, event string, payload map[string]any) {
	if p.writer == nil {
		return
	}
	msg := map[string]any{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Warn().Err(err).Str("event", event).Msg("events: marshal ticket event")
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("events: write ticket event")
	}
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers splits a "host1:9092,host2:9092" list into a slice,
// dropping empty entries.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
