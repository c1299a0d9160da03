package core

import "github.com/nikolaydubina/fpdecimal"

// BookBackend defines the storage contract behind the order book: the live
// order registry, the two price-sorted book sides, and the permanent status
// ledger. A single store owns every order; the book sides reference orders
// by ID only, so an order is live if and only if it rests in exactly one
// price level of exactly one side.
type BookBackend interface {
	// Live order registry
	GetOrder(orderID string) *Order
	StoreOrder(order *Order) error
	DeleteOrder(orderID string)
	IsLive(orderID string) bool

	// Book side operations
	AppendToSide(side Side, order *Order)
	RemoveFromSide(side Side, order *Order) bool
	BestPrice(side Side) (fpdecimal.Decimal, bool)
	FrontOrder(side Side, price fpdecimal.Decimal) *Order
	PopFront(side Side, price fpdecimal.Decimal)

	// Status ledger. Entries are kept for the lifetime of the process,
	// even after an order stops resting.
	SetStatus(orderID string, status Status)
	StatusOf(orderID string) (Status, bool)
}
