// Package audit writes one JSON line per ledger and order event.
package audit

import (
	"encoding/json"
	"log"
	"time"
)

// Event types
const (
	EventDeposit        = "DEPOSIT"
	EventWithdraw       = "WITHDRAW"
	EventOrderPlaced    = "ORDER_PLACED"
	EventOrderDeleted   = "ORDER_DELETED"
	EventOrderCancelled = "ORDER_CANCELLED"
	EventError          = "ERROR"
)

type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	EntityID  string    `json:"entity_id"`
	RecordID  string    `json:"record_id,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

type Logger struct {
	out *log.Logger
	now func() time.Time
}

// NewLogger writes through out, or the standard logger when out is nil.
func NewLogger(out *log.Logger) *Logger {
	if out == nil {
		out = log.Default()
	}
	return &Logger{out: out, now: time.Now}
}

// LogLedger records a balance change of walletID caused by transaction txnID.
func (a *Logger) LogLedger(eventType, walletID, txnID string, amount, balance int64) {
	a.log(Event{
		Timestamp: a.now(),
		EventType: eventType,
		EntityID:  walletID,
		RecordID:  txnID,
		Amount:    amount,
		Status:    "SUCCESS",
		Details:   map[string]int64{"balance": balance},
	})
}

// LogOrder records an order lifecycle event.
func (a *Logger) LogOrder(eventType, orderID string, amount int64, details map[string]any) {
	a.log(Event{
		Timestamp: a.now(),
		EventType: eventType,
		EntityID:  orderID,
		Amount:    amount,
		Status:    "SUCCESS",
		Details:   details,
	})
}

// LogError records a failed operation on entityID.
func (a *Logger) LogError(operation, entityID string, err error) {
	a.log(Event{
		Timestamp: a.now(),
		EventType: EventError,
		EntityID:  entityID,
		Status:    "FAILED",
		Details:   map[string]string{"operation": operation, "error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	a.out.Printf("AUDIT: %s", string(data))
}
