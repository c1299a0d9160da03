package core

import (
	"fmt"

	"github.com/nikolaydubina/fpdecimal"
)

func init() {
	// Prices and quantities are integers at the boundary; render them
	// without a fractional part.
	fpdecimal.FractionDigits = 0
}

// Side represents buy or sell side of the order
type Side int

// Order sides
const (
	Sell Side = iota
	Buy
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the other side of the book
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// SideFromString parses the wire form of a side ("buy" or "sell")
func SideFromString(s string) (Side, error) {
	switch s {
	case "buy", "BUY":
		return Buy, nil
	case "sell", "SELL":
		return Sell, nil
	default:
		return 0, ErrInvalidSide
	}
}

// Role represents maker or taker role
type Role string

// Order roles
const (
	MAKER Role = "MAKER"
	TAKER Role = "TAKER"
)

// Status is the ledger state of an order. An order starts Active, moves to
// Partial after its first partial execution, and ends in one of the terminal
// states Filled or Cancelled. Terminal states are never left.
type Status int

// Order statuses
const (
	StatusActive Status = iota
	StatusPartial
	StatusFilled
	StatusCancelled
)

// String returns status as string
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusPartial:
		return "PARTIAL"
	case StatusFilled:
		return "FILLED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether the status can never change again
func (s Status) IsTerminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is a legal ledger
// transition
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusPartial || next == StatusFilled || next == StatusCancelled
	case StatusPartial:
		return next == StatusFilled || next == StatusCancelled
	default:
		return false
	}
}

// Order stores information about a limit order. Identity, side, price and
// the original quantity are immutable; the remaining quantity only
// decreases, and only through the matching loop.
type Order struct {
	id          string
	side        Side
	price       fpdecimal.Decimal
	quantity    fpdecimal.Decimal
	originalQty fpdecimal.Decimal
	role        Role
}

// NewLimitOrder creates new constant object Order
func NewLimitOrder(orderID string, side Side, quantity, price fpdecimal.Decimal) (*Order, error) {
	if quantity.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidQuantity
	}

	if price.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidPrice
	}

	return &Order{
		id:          orderID,
		side:        side,
		price:       price,
		quantity:    quantity,
		originalQty: quantity,
	}, nil
}

// ID returns OrderID field copy
func (o *Order) ID() string {
	return o.id
}

// Side returns side of the Order
func (o *Order) Side() Side {
	return o.side
}

// Price returns Price field copy
func (o *Order) Price() fpdecimal.Decimal {
	return o.price
}

// Quantity returns remaining quantity
func (o *Order) Quantity() fpdecimal.Decimal {
	return o.quantity
}

// OriginalQty returns originalQty field copy
func (o *Order) OriginalQty() fpdecimal.Decimal {
	return o.originalQty
}

// DecreaseQuantity subtracts an executed quantity from the remaining
// quantity. Called only by the matching loop.
func (o *Order) DecreaseQuantity(quantity fpdecimal.Decimal) {
	o.quantity = o.quantity.Sub(quantity)
}

// IsFilled reports whether no quantity remains
func (o *Order) IsFilled() bool {
	return o.quantity.Equal(fpdecimal.Zero)
}

// SetMaker sets Maker role
func (o *Order) SetMaker() {
	o.role = MAKER
}

// SetTaker sets Taker role
func (o *Order) SetTaker() {
	o.role = TAKER
}

// Role returns role of Order
func (o *Order) Role() Role {
	if o.role == MAKER {
		return MAKER
	}

	return TAKER
}

// String implements Stringer interface using the current remaining quantity
func (o *Order) String() string {
	return fmt.Sprintf("%s %s %s @ %s", o.id, o.side, o.quantity, o.price)
}
