package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/altmarkets/limitbook/pkg/messaging"
)

func newTestDone(t *testing.T) (*Done, *Order) {
	t.Helper()
	order, err := NewLimitOrder("taker-1", Buy, fpdecimal.FromInt(10), fpdecimal.FromInt(20))
	if err != nil {
		t.Fatalf("NewLimitOrder returned an error: %v", err)
	}
	return newDone(order), order
}

func TestDoneAppendTrade(t *testing.T) {
	done, taker := newTestDone(t)

	resting, err := NewLimitOrder("maker-1", Sell, fpdecimal.FromInt(4), fpdecimal.FromInt(19))
	if err != nil {
		t.Fatalf("NewLimitOrder returned an error: %v", err)
	}
	resting.SetMaker()

	done.appendTrade(resting, fpdecimal.FromInt(4), resting.Price())

	if len(done.Trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(done.Trades))
	}

	trade := done.GetTradeOrder("maker-1")
	if trade == nil {
		t.Fatal("GetTradeOrder returned nil for maker-1")
	}
	if trade.Role != MAKER {
		t.Errorf("Expected role MAKER, got %v", trade.Role)
	}
	if !trade.Quantity.Equal(fpdecimal.FromInt(4)) {
		t.Errorf("Expected trade quantity 4, got %v", trade.Quantity)
	}

	if len(done.Events) != 1 || done.Events[0].Kind != messaging.EventTrade {
		t.Fatalf("Expected a single TRADE event, got %+v", done.Events)
	}
	if done.Events[0].OrderID != taker.ID() || done.Events[0].RestingID != "maker-1" {
		t.Errorf("Trade event ids wrong: %+v", done.Events[0])
	}
}

func TestDoneFinalize(t *testing.T) {
	done, taker := newTestDone(t)

	resting, err := NewLimitOrder("maker-1", Sell, fpdecimal.FromInt(4), fpdecimal.FromInt(19))
	if err != nil {
		t.Fatalf("NewLimitOrder returned an error: %v", err)
	}
	done.appendTrade(resting, fpdecimal.FromInt(4), resting.Price())
	done.finalize(fpdecimal.FromInt(6), true)

	if !done.Processed.Equal(fpdecimal.FromInt(4)) {
		t.Errorf("Expected processed 4, got %v", done.Processed)
	}
	if !done.Left.Equal(fpdecimal.FromInt(6)) {
		t.Errorf("Expected left 6, got %v", done.Left)
	}
	if !done.Stored {
		t.Error("Expected order to be stored")
	}

	// The taker summary sits at the front of the trade list.
	if done.Trades[0].OrderID != taker.ID() || done.Trades[0].Role != TAKER {
		t.Errorf("Expected taker summary first, got %+v", done.Trades[0])
	}
	if !done.Trades[0].Quantity.Equal(fpdecimal.FromInt(4)) {
		t.Errorf("Expected taker trade quantity 4, got %v", done.Trades[0].Quantity)
	}
}

func TestDoneFinalizeNoTrades(t *testing.T) {
	done, _ := newTestDone(t)
	done.finalize(fpdecimal.FromInt(10), true)

	if len(done.Trades) != 0 {
		t.Errorf("Expected no trades, got %d", len(done.Trades))
	}
	if !done.Processed.Equal(fpdecimal.Zero) {
		t.Errorf("Expected processed 0, got %v", done.Processed)
	}
}

func TestDoneMarshalJSON(t *testing.T) {
	done, _ := newTestDone(t)
	done.finalize(fpdecimal.FromInt(10), true)

	data, err := json.Marshal(done)
	if err != nil {
		t.Fatalf("Marshal returned an error: %v", err)
	}

	for _, field := range []string{`"order":"taker-1"`, `"stored":true`, `"left":"10"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("Marshaled Done missing %s: %s", field, data)
		}
	}
}
