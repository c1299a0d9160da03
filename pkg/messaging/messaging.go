package messaging

import "context"

// EventKind names one kind of engine event
type EventKind string

// Engine events emitted while processing add and cancel operations
const (
	EventOrderAccepted  EventKind = "ORDER_ACCEPTED"
	EventTrade          EventKind = "TRADE"
	EventOrderFilled    EventKind = "ORDER_FILLED"
	EventOrderPartial   EventKind = "ORDER_PARTIAL"
	EventOrderCancelled EventKind = "ORDER_CANCELLED"
	EventCancelRejected EventKind = "CANCEL_REJECTED"
)

// Cancel rejection reasons. ReasonUnknown means the order ID was never seen
// by the engine; ReasonNotLive means it exists in the ledger but is no
// longer resting.
const (
	ReasonUnknown = "unknown"
	ReasonNotLive = "not_live"
)

// Event is one entry of the engine's event stream. Only the fields
// meaningful for the given Kind are populated.
type Event struct {
	Kind      EventKind `json:"kind"`
	OrderID   string    `json:"orderID"`
	RestingID string    `json:"restingID,omitempty"`
	Side      string    `json:"side,omitempty"`
	Price     string    `json:"price,omitempty"`
	Quantity  string    `json:"quantity,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// MessageSender defines an interface for publishing engine events.
// This decouples the core package from specific transports like Kafka.
type MessageSender interface {
	SendEvents(ctx context.Context, events []Event) error
	Close() error
}
