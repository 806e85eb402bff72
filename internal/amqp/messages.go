package amqp

import (
	"encoding/json"
	"time"
)

// Event operations carried by change messages.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// ChangeMessage announces a write against one ledger table. Consumers fetch
// the row themselves; the message carries only table, id and operation.
type ChangeMessage struct {
	Table     string    `json:"table"`
	ID        int64     `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(table string, id int64, op string) *ChangeMessage {
	return &ChangeMessage{
		Table:     table,
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
