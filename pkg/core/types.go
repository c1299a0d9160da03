package core

import (
	"encoding/json"

	"github.com/altmarkets/limitbook/pkg/messaging"
	"github.com/nikolaydubina/fpdecimal"
)

// TradeOrder is one execution against a resting order
type TradeOrder struct {
	OrderID  string
	Role     Role
	Price    fpdecimal.Decimal
	Quantity fpdecimal.Decimal
}

// MarshalJSON implements Marshaler interface
func (t *TradeOrder) MarshalJSON() ([]byte, error) {
	customStruct := struct {
		OrderID  string `json:"orderID"`
		Role     Role   `json:"role"`
		Price    string `json:"price"`
		Quantity string `json:"quantity"`
	}{
		OrderID:  t.OrderID,
		Role:     t.Role,
		Price:    t.Price.String(),
		Quantity: t.Quantity.String(),
	}
	return json.Marshal(customStruct)
}

// Done contains information about the order execution result
type Done struct {
	// Initial order processed
	Order *Order
	// Original quantity of the order
	Quantity fpdecimal.Decimal
	// Executions against resting orders, in matching order
	Trades []TradeOrder
	// Remaining quantity left for the initial order
	Left fpdecimal.Decimal
	// Total quantity executed for the initial order
	Processed fpdecimal.Decimal
	// Whether the order now rests in the book
	Stored bool
	// Events emitted while processing, in emission order
	Events []messaging.Event
}

// newDone creates a new Done object for the given order
func newDone(order *Order) *Done {
	return &Done{
		Order:    order,
		Quantity: order.OriginalQty(),
		Trades:   make([]TradeOrder, 0),
		Left:     fpdecimal.Zero,
	}
}

// GetTradeOrder returns TradeOrder by id
func (d *Done) GetTradeOrder(id string) *TradeOrder {
	for i := range d.Trades {
		if d.Trades[i].OrderID == id {
			return &d.Trades[i]
		}
	}
	return nil
}

// appendAccepted records the acceptance of the incoming order
func (d *Done) appendAccepted() {
	d.Events = append(d.Events, messaging.Event{
		Kind:     messaging.EventOrderAccepted,
		OrderID:  d.Order.ID(),
		Side:     d.Order.Side().String(),
		Price:    d.Order.Price().String(),
		Quantity: d.Order.OriginalQty().String(),
	})
}

// appendTrade records one execution against a resting order
func (d *Done) appendTrade(resting *Order, quantity, price fpdecimal.Decimal) {
	d.Trades = append(d.Trades, TradeOrder{
		OrderID:  resting.ID(),
		Role:     resting.Role(),
		Price:    price,
		Quantity: quantity,
	})
	d.Events = append(d.Events, messaging.Event{
		Kind:      messaging.EventTrade,
		OrderID:   d.Order.ID(),
		RestingID: resting.ID(),
		Price:     price.String(),
		Quantity:  quantity.String(),
	})
}

// appendStatus records the status change of any order touched by the
// operation. Only Partial, Filled and Cancelled are event-bearing.
func (d *Done) appendStatus(orderID string, status Status) {
	var kind messaging.EventKind
	switch status {
	case StatusFilled:
		kind = messaging.EventOrderFilled
	case StatusPartial:
		kind = messaging.EventOrderPartial
	case StatusCancelled:
		kind = messaging.EventOrderCancelled
	default:
		return
	}
	d.Events = append(d.Events, messaging.Event{Kind: kind, OrderID: orderID})
}

// finalize records the taker summary once matching is over
func (d *Done) finalize(left fpdecimal.Decimal, stored bool) {
	d.Left = left
	d.Processed = d.Quantity.Sub(left)
	d.Stored = stored
	if d.Processed.GreaterThan(fpdecimal.Zero) {
		taker := TradeOrder{
			OrderID:  d.Order.ID(),
			Role:     TAKER,
			Price:    d.Order.Price(),
			Quantity: d.Processed,
		}
		d.Trades = append([]TradeOrder{taker}, d.Trades...)
	}
}

// MarshalJSON implements json.Marshaler interface for Done
func (d *Done) MarshalJSON() ([]byte, error) {
	trades := make([]TradeOrder, len(d.Trades))
	copy(trades, d.Trades)

	return json.Marshal(struct {
		Order     string       `json:"order"`
		Trades    []TradeOrder `json:"trades"`
		Left      string       `json:"left"`
		Processed string       `json:"processed"`
		Stored    bool         `json:"stored"`
	}{
		Order:     d.Order.ID(),
		Trades:    trades,
		Left:      d.Left.String(),
		Processed: d.Processed.String(),
		Stored:    d.Stored,
	})
}
