package amqp

import (
	"context"
	"testing"
	"time"
)

func TestChangeMessageRoundTrip(t *testing.T) {
	msg := NewChangeMessage("expenses", 42, OpUpdated)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := ChangeMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Table != "expenses" || back.ID != 42 || back.Op != OpUpdated {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if back.Timestamp.IsZero() {
		t.Fatal("timestamp not carried")
	}
}

func TestChangeMessageFromJSONInvalid(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestNilClientIsNoOp(t *testing.T) {
	var c *Client

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.PublishChange(ctx, "expenses", 1, OpCreated); err != nil {
		t.Fatalf("nil client publish: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil client close: %v", err)
	}
}
