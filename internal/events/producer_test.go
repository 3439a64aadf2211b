package events

import (
	"context"
	"testing"
)

func TestNewProducer_UnconfiguredIsNoop(t *testing.T) {
	for _, p := range []*Producer{
		NewProducer(nil, "topic"),
		NewProducer([]string{"localhost:9092"}, ""),
	} {
		// Must not panic or block without a broker.
		p.ProduceTicketEvent(context.Background(), "ticket.upserted", map[string]any{"title": "x"})
		if err := p.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
}

func TestParseBrokers(t *testing.T) {
	got := ParseBrokers(" b1:9092, ,b2:9092 ,")
	if len(got) != 2 || got[0] != "b1:9092" || got[1] != "b2:9092" {
		t.Fatalf("ParseBrokers = %v", got)
	}
	if out := ParseBrokers(""); out != nil {
		t.Fatalf("ParseBrokers(\"\") = %v, want nil", out)
	}
}
