package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nikolaydubina/fpdecimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/altmarkets/limitbook/pkg/messaging"
	"github.com/altmarkets/limitbook/pkg/otel"
)

// OrderBook implements price-time priority matching for a single instrument.
// Add and cancel operations serialize on one mutex: the two book sides and
// the registry form a single unit of mutual exclusion, and every operation
// runs to completion before the next one observes the book.
type OrderBook struct {
	mu      sync.Mutex
	backend BookBackend
	sender  messaging.MessageSender
}

// Option configures an OrderBook
type Option func(*OrderBook)

// WithMessageSender injects the consumer of the engine's event stream
func WithMessageSender(sender messaging.MessageSender) Option {
	return func(ob *OrderBook) {
		ob.sender = sender
	}
}

// NewOrderBook creates Orderbook object with a backend
func NewOrderBook(backend BookBackend, opts ...Option) *OrderBook {
	ob := &OrderBook{
		backend: backend,
		sender:  messaging.NoopSender{},
	}
	for _, opt := range opts {
		opt(ob)
	}
	return ob
}

// GetOrder returns the live Order by id, or nil if it is not resting
func (ob *OrderBook) GetOrder(orderID string) *Order {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.backend.GetOrder(orderID)
}

// StatusOf returns the ledger status for an order id
func (ob *OrderBook) StatusOf(orderID string) (Status, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.backend.StatusOf(orderID)
}

// IsLive reports whether the order currently rests in the book
func (ob *OrderBook) IsLive(orderID string) bool {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.backend.IsLive(orderID)
}

// BestBid returns the highest resting buy price
func (ob *OrderBook) BestBid() (fpdecimal.Decimal, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.backend.BestPrice(Buy)
}

// BestAsk returns the lowest resting sell price
func (ob *OrderBook) BestAsk() (fpdecimal.Decimal, bool) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.backend.BestPrice(Sell)
}

// Process matches the incoming limit order against the opposite side and
// rests whatever quantity remains. The operation is a single atomic pass;
// its only side effects besides book state are the emitted events.
func (ob *OrderBook) Process(ctx context.Context, order *Order) (*Done, error) {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanProcessOrder,
		attribute.String(otel.AttributeOrderID, order.ID()),
		attribute.String(otel.AttributeOrderSide, order.Side().String()),
		attribute.String(otel.AttributeOrderQuantity, order.Quantity().String()),
		attribute.String(otel.AttributeOrderPrice, order.Price().String()),
	)
	defer span.End()

	ob.mu.Lock()
	defer ob.mu.Unlock()

	// An order id is unique for the engine's lifetime, not merely while
	// resting. The ledger remembers every id ever accepted.
	if _, seen := ob.backend.StatusOf(order.ID()); seen {
		span.SetStatus(codes.Error, "order already exists")
		return nil, ErrOrderExists
	}

	ob.setStatus(order.ID(), StatusActive)

	done := newDone(order)
	done.appendAccepted()
	order.SetTaker()

	ob.matchOrder(order, done)

	left := order.Quantity()
	switch {
	case left.Equal(fpdecimal.Zero):
		ob.setStatus(order.ID(), StatusFilled)
		done.appendStatus(order.ID(), StatusFilled)
	case len(done.Trades) > 0:
		ob.setStatus(order.ID(), StatusPartial)
		done.appendStatus(order.ID(), StatusPartial)
	}

	stored := false
	if left.GreaterThan(fpdecimal.Zero) {
		if err := ob.backend.StoreOrder(order); err != nil {
			span.SetStatus(codes.Error, "failed to store order")
			return nil, fmt.Errorf("error storing limit order: %w", err)
		}
		ob.backend.AppendToSide(order.Side(), order)
		stored = true
	}
	done.finalize(left, stored)

	ob.publish(ctx, done.Events)

	otel.AddAttributes(span,
		attribute.String(otel.AttributeExecutedQuantity, done.Processed.String()),
		attribute.String(otel.AttributeRemainingQuantity, done.Left.String()),
		attribute.Int(otel.AttributeTradeCount, len(done.Trades)),
	)
	span.SetStatus(codes.Ok, "order processed successfully")

	return done, nil
}

// matchOrder runs the matching loop against the opposite book side. Best
// price first; within a price level the longest-resting order first. A
// partially filled resting order stays at the head of its queue.
func (ob *OrderBook) matchOrder(order *Order, done *Done) {
	opposite := order.Side().Opposite()

	for order.Quantity().GreaterThan(fpdecimal.Zero) {
		best, ok := ob.backend.BestPrice(opposite)
		if !ok || !crosses(order.Side(), order.Price(), best) {
			break
		}

		for order.Quantity().GreaterThan(fpdecimal.Zero) {
			resting := ob.backend.FrontOrder(opposite, best)
			if resting == nil {
				break
			}
			resting.SetMaker()

			executed := min(order.Quantity(), resting.Quantity())
			order.DecreaseQuantity(executed)
			resting.DecreaseQuantity(executed)
			done.appendTrade(resting, executed, best)

			if resting.IsFilled() {
				ob.backend.PopFront(opposite, best)
				ob.backend.DeleteOrder(resting.ID())
				ob.setStatus(resting.ID(), StatusFilled)
				done.appendStatus(resting.ID(), StatusFilled)
			} else {
				ob.setStatus(resting.ID(), StatusPartial)
				done.appendStatus(resting.ID(), StatusPartial)
			}
		}
	}
}

// CancelOrder removes a resting order from its price level and the live
// registry and marks it Cancelled. Returns false if the order id was never
// seen or is no longer live; that outcome is reported through the event
// stream, not as an error.
func (ob *OrderBook) CancelOrder(ctx context.Context, orderID string) bool {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanCancelOrder,
		attribute.String(otel.AttributeOrderID, orderID),
	)
	defer span.End()

	ob.mu.Lock()
	defer ob.mu.Unlock()

	order := ob.backend.GetOrder(orderID)
	if order == nil {
		reason := messaging.ReasonNotLive
		if _, seen := ob.backend.StatusOf(orderID); !seen {
			reason = messaging.ReasonUnknown
		}
		ob.publish(ctx, []messaging.Event{{
			Kind:    messaging.EventCancelRejected,
			OrderID: orderID,
			Reason:  reason,
		}})
		span.SetStatus(codes.Ok, "cancel rejected")
		return false
	}

	if !ob.backend.RemoveFromSide(order.Side(), order) {
		// The registry and the book side must always agree.
		panic(fmt.Sprintf("order %s live but missing from %s side", orderID, order.Side()))
	}
	ob.backend.DeleteOrder(orderID)
	ob.setStatus(orderID, StatusCancelled)

	ob.publish(ctx, []messaging.Event{{
		Kind:    messaging.EventOrderCancelled,
		OrderID: orderID,
	}})
	span.SetStatus(codes.Ok, "order cancelled")
	return true
}

// setStatus writes the ledger, refusing to leave a terminal state.
// Re-writing the current status is a no-op.
func (ob *OrderBook) setStatus(orderID string, status Status) {
	if prev, ok := ob.backend.StatusOf(orderID); ok {
		if prev == status {
			return
		}
		if !prev.CanTransition(status) {
			panic(fmt.Sprintf("illegal status transition %s -> %s for order %s", prev, status, orderID))
		}
	}
	ob.backend.SetStatus(orderID, status)
}

// publish hands the emitted events to the configured sender
func (ob *OrderBook) publish(ctx context.Context, events []messaging.Event) {
	if len(events) == 0 {
		return
	}

	ctx, span := otel.StartOrderSpan(ctx, otel.SpanPublishEvents,
		attribute.Int(otel.AttributeEventCount, len(events)),
	)
	defer span.End()

	if err := ob.sender.SendEvents(ctx, events); err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("failed to publish events: %v", err))
		return
	}
	span.SetStatus(codes.Ok, "events published")
}

// crosses checks if the incoming order price overlaps the book price
func crosses(side Side, orderPrice, bookPrice fpdecimal.Decimal) bool {
	if side == Buy {
		return bookPrice.LessThanOrEqual(orderPrice)
	}
	return bookPrice.GreaterThanOrEqual(orderPrice)
}

// min returns the minimum of two decimals
func min(a, b fpdecimal.Decimal) fpdecimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// String implements fmt.Stringer interface
func (ob *OrderBook) String() string {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	builder := strings.Builder{}

	builder.WriteString("Ask:")
	if stringer, ok := ob.backend.(interface{ SideString(Side) string }); ok {
		builder.WriteString(stringer.SideString(Sell))
	}
	builder.WriteString("\n")

	builder.WriteString("Bid:")
	if stringer, ok := ob.backend.(interface{ SideString(Side) string }); ok {
		builder.WriteString(stringer.SideString(Buy))
	}
	builder.WriteString("\n")

	return builder.String()
}
