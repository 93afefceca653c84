package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record kinds carried by event messages. They match the kinds used by
// the storage layer so the worker can route lookups without translation.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// RecordEventMessage announces a newly created ledger record. It carries
// identifiers only; the worker fetches the full record from the database
// so stale queue entries never overwrite fresher data.
type RecordEventMessage struct {
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	RecordID  int64     `json:"record_id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordEventMessage creates an event message for a record that was
// just written, stamped with a fresh UUID.
func NewRecordEventMessage(kind string, recordID, version int64) *RecordEventMessage {
	return &RecordEventMessage{
		EventID:   uuid.NewString(),
		Kind:      kind,
		RecordID:  recordID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// Validate reports whether the message identifies a processable record.
func (m *RecordEventMessage) Validate() error {
	if m.Kind != KindIncome && m.Kind != KindExpense {
		return fmt.Errorf("unknown record kind %q", m.Kind)
	}
	if m.RecordID <= 0 {
		return fmt.Errorf("invalid record id %d", m.RecordID)
	}
	return nil
}

// ToJSON converts the message to JSON bytes.
func (m *RecordEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordEventMessageFromJSON parses a message from JSON bytes.
func RecordEventMessageFromJSON(data []byte) (*RecordEventMessage, error) {
	var msg RecordEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
