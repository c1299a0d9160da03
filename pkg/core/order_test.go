package core

import (
	"errors"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
)

func TestSideString(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{"Buy", Buy, "BUY"},
		{"Sell", Sell, "SELL"},
		{"Invalid", Side(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.side.String(); got != tt.want {
				t.Errorf("Side.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSideFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Side
		wantErr bool
	}{
		{"buy", "buy", Buy, false},
		{"sell", "sell", Sell, false},
		{"BUY", "BUY", Buy, false},
		{"SELL", "SELL", Sell, false},
		{"empty", "", 0, true},
		{"garbage", "hold", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SideFromString(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSide) {
					t.Errorf("SideFromString(%q) error = %v, want ErrInvalidSide", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SideFromString(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("SideFromString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSideOpposite(t *testing.T) {
	if Buy.Opposite() != Sell {
		t.Errorf("Buy.Opposite() = %v, want Sell", Buy.Opposite())
	}
	if Sell.Opposite() != Buy {
		t.Errorf("Sell.Opposite() = %v, want Buy", Sell.Opposite())
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusActive, "ACTIVE"},
		{StatusPartial, "PARTIAL"},
		{StatusFilled, "FILLED"},
		{StatusCancelled, "CANCELLED"},
		{Status(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status.String() = %v, want %v", got, tt.want)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"ActiveToPartial", StatusActive, StatusPartial, true},
		{"ActiveToFilled", StatusActive, StatusFilled, true},
		{"ActiveToCancelled", StatusActive, StatusCancelled, true},
		{"PartialToFilled", StatusPartial, StatusFilled, true},
		{"PartialToCancelled", StatusPartial, StatusCancelled, true},
		{"PartialToActive", StatusPartial, StatusActive, false},
		{"FilledIsTerminal", StatusFilled, StatusCancelled, false},
		{"CancelledIsTerminal", StatusCancelled, StatusFilled, false},
		{"FilledToActive", StatusFilled, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}

	if StatusActive.IsTerminal() || StatusPartial.IsTerminal() {
		t.Error("Active and Partial must not be terminal")
	}
	if !StatusFilled.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Error("Filled and Cancelled must be terminal")
	}
}

func TestNewLimitOrder(t *testing.T) {
	orderID := "test-123"
	quantity := fpdecimal.FromInt(10)
	price := fpdecimal.FromInt(25)

	order, err := NewLimitOrder(orderID, Buy, quantity, price)
	if err != nil {
		t.Fatalf("NewLimitOrder returned an error: %v", err)
	}

	if order.ID() != orderID {
		t.Errorf("Expected ID %s, got %s", orderID, order.ID())
	}

	if order.Side() != Buy {
		t.Errorf("Expected Side Buy, got %v", order.Side())
	}

	if !order.Quantity().Equal(quantity) {
		t.Errorf("Expected Quantity %v, got %v", quantity, order.Quantity())
	}

	if !order.OriginalQty().Equal(quantity) {
		t.Errorf("Expected OriginalQty %v, got %v", quantity, order.OriginalQty())
	}

	if !order.Price().Equal(price) {
		t.Errorf("Expected Price %v, got %v", price, order.Price())
	}
}

func TestNewLimitOrderValidation(t *testing.T) {
	tests := []struct {
		name     string
		quantity fpdecimal.Decimal
		price    fpdecimal.Decimal
		wantErr  error
	}{
		{"ZeroQuantity", fpdecimal.Zero, fpdecimal.FromInt(10), ErrInvalidQuantity},
		{"NegativeQuantity", fpdecimal.FromInt(-5), fpdecimal.FromInt(10), ErrInvalidQuantity},
		{"ZeroPrice", fpdecimal.FromInt(10), fpdecimal.Zero, ErrInvalidPrice},
		{"NegativePrice", fpdecimal.FromInt(10), fpdecimal.FromInt(-1), ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLimitOrder("bad", Sell, tt.quantity, tt.price)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewLimitOrder error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecreaseQuantity(t *testing.T) {
	order, err := NewLimitOrder("dec-1", Sell, fpdecimal.FromInt(10), fpdecimal.FromInt(5))
	if err != nil {
		t.Fatalf("NewLimitOrder returned an error: %v", err)
	}

	order.DecreaseQuantity(fpdecimal.FromInt(4))

	if !order.Quantity().Equal(fpdecimal.FromInt(6)) {
		t.Errorf("Expected remaining quantity 6, got %v", order.Quantity())
	}
	if !order.OriginalQty().Equal(fpdecimal.FromInt(10)) {
		t.Errorf("OriginalQty changed: got %v", order.OriginalQty())
	}
	if order.IsFilled() {
		t.Error("Order should not be filled yet")
	}

	order.DecreaseQuantity(fpdecimal.FromInt(6))
	if !order.IsFilled() {
		t.Error("Order should be filled")
	}
}

func TestOrderString(t *testing.T) {
	order, err := NewLimitOrder("ORD-7", Buy, fpdecimal.FromInt(30), fpdecimal.FromInt(20))
	if err != nil {
		t.Fatalf("NewLimitOrder returned an error: %v", err)
	}

	want := "ORD-7 BUY 30 @ 20"
	if got := order.String(); got != want {
		t.Errorf("Order.String() = %q, want %q", got, want)
	}

	// The rendering uses the remaining quantity, not the original.
	order.DecreaseQuantity(fpdecimal.FromInt(10))
	want = "ORD-7 BUY 20 @ 20"
	if got := order.String(); got != want {
		t.Errorf("Order.String() after partial fill = %q, want %q", got, want)
	}
}

func TestRole(t *testing.T) {
	order, err := NewLimitOrder("role-1", Buy, fpdecimal.FromInt(1), fpdecimal.FromInt(1))
	if err != nil {
		t.Fatalf("NewLimitOrder returned an error: %v", err)
	}

	if order.Role() != TAKER {
		t.Errorf("Expected default role TAKER, got %v", order.Role())
	}

	order.SetMaker()
	if order.Role() != MAKER {
		t.Errorf("Expected role MAKER, got %v", order.Role())
	}

	order.SetTaker()
	if order.Role() != TAKER {
		t.Errorf("Expected role TAKER, got %v", order.Role())
	}
}
