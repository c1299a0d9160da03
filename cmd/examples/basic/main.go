package main

import (
	"context"
	"fmt"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/altmarkets/limitbook/pkg/backend/memory"
	"github.com/altmarkets/limitbook/pkg/core"
)

func main() {
	// Initialize order book with in-memory backend
	backend := memory.NewMemoryBackend()
	book := core.NewOrderBook(backend)
	ctx := context.Background()

	// Create a sell limit order
	sellOrder, err := core.NewLimitOrder("sell-1", core.Sell, fpdecimal.FromInt(10), fpdecimal.FromInt(100))
	if err != nil {
		panic(err)
	}

	if _, err := book.Process(ctx, sellOrder); err != nil {
		panic(err)
	}
	fmt.Printf("Created sell order: %s\n", sellOrder)

	// Create a crossing buy limit order
	buyOrder, err := core.NewLimitOrder("buy-1", core.Buy, fpdecimal.FromInt(5), fpdecimal.FromInt(100))
	if err != nil {
		panic(err)
	}

	buyDone, err := book.Process(ctx, buyOrder)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Processing buy order: %s\n", buyOrder.ID())
	fmt.Printf("Buy order processed quantity: %s\n", buyDone.Processed)
	fmt.Printf("Sell order remaining quantity: %s\n", sellOrder.Quantity())

	sellStatus, _ := book.StatusOf(sellOrder.ID())
	buyStatus, _ := book.StatusOf(buyOrder.ID())

	fmt.Println("\nSummary of orders:")
	fmt.Printf("- Sell Order: %s status=%s\n", sellOrder, sellStatus)
	fmt.Printf("- Buy Order: %s status=%s\n", buyOrder, buyStatus)
	fmt.Print(book)
}
