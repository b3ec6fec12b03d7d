package logsink

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func TestPublishWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	p := NewPublisher(log.New(&buf, "", 0))

	if err := p.Publish(context.Background(), "ledger_events", map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != `event ledger_events: {"n":1}` {
		t.Fatalf("got %q", got)
	}
}

func TestPublishRejectsUnencodable(t *testing.T) {
	p := NewPublisher(log.New(&bytes.Buffer{}, "", 0))
	if err := p.Publish(context.Background(), "t", make(chan int)); err == nil {
		t.Fatal("want encode error")
	}
}
