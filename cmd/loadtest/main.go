package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/fatih/color"
	"github.com/nikolaydubina/fpdecimal"
	"golang.org/x/time/rate"

	"github.com/altmarkets/limitbook/pkg/backend/memory"
	"github.com/altmarkets/limitbook/pkg/core"
)

func main() {
	numOrders := flag.Int("orders", 100000, "Number of orders to feed")
	maxRate := flag.Float64("rate", 50000, "Maximum orders per second (0 = unlimited)")
	priceLevels := flag.Int("levels", 100, "Number of distinct price levels")
	cancelPct := flag.Int("cancel-pct", 10, "Percentage of operations that are cancels")
	seed := flag.Int64("seed", 42, "PRNG seed for a reproducible run")
	flag.Parse()

	book := core.NewOrderBook(memory.NewMemoryBackend())
	rng := rand.New(rand.NewSource(*seed))

	var limiter *rate.Limiter
	if *maxRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(*maxRate), int(*maxRate/10)+1)
	}

	// Latencies in microseconds, up to 1s
	addHist := hdrhistogram.New(1, 1_000_000, 3)
	cancelHist := hdrhistogram.New(1, 1_000_000, 3)

	ctx := context.Background()
	var liveIDs []string
	trades := 0

	start := time.Now()
	for i := 0; i < *numOrders; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}

		if len(liveIDs) > 0 && rng.Intn(100) < *cancelPct {
			idx := rng.Intn(len(liveIDs))
			id := liveIDs[idx]
			liveIDs = append(liveIDs[:idx], liveIDs[idx+1:]...)

			t0 := time.Now()
			book.CancelOrder(ctx, id)
			_ = cancelHist.RecordValue(time.Since(t0).Microseconds())
			continue
		}

		side := core.Buy
		if rng.Intn(2) == 0 {
			side = core.Sell
		}
		price := fpdecimal.FromInt(1000 + rng.Intn(*priceLevels))
		quantity := fpdecimal.FromInt(1 + rng.Intn(100))

		order, err := core.NewLimitOrder(fmt.Sprintf("lt-%d", i), side, quantity, price)
		if err != nil {
			continue
		}

		t0 := time.Now()
		done, err := book.Process(ctx, order)
		_ = addHist.RecordValue(time.Since(t0).Microseconds())
		if err != nil {
			continue
		}
		trades += len(done.Trades)
		if done.Stored {
			liveIDs = append(liveIDs, order.ID())
		}
	}
	elapsed := time.Since(start)

	cyan := color.New(color.FgCyan).SprintfFunc()
	green := color.New(color.FgGreen).SprintfFunc()

	fmt.Println(cyan("Load test completed in %v", elapsed))
	fmt.Println(green("Throughput: %.0f ops/sec", float64(*numOrders)/elapsed.Seconds()))
	fmt.Println(green("Trades executed: %d, orders resting: %d", trades, len(liveIDs)))

	printHistogram("add_order", addHist)
	printHistogram("cancel_order", cancelHist)
}

func printHistogram(name string, h *hdrhistogram.Histogram) {
	if h.TotalCount() == 0 {
		return
	}
	fmt.Printf("%s latency (us): p50=%d p99=%d p99.9=%d max=%d (n=%d)\n",
		name,
		h.ValueAtQuantile(50),
		h.ValueAtQuantile(99),
		h.ValueAtQuantile(99.9),
		h.Max(),
		h.TotalCount(),
	)
}
