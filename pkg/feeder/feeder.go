package feeder

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nikolaydubina/fpdecimal"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/altmarkets/limitbook/pkg/core"
)

// Command is one entry of an order feed: an add or a cancel
type Command struct {
	Op       string `yaml:"op"`
	OrderID  string `yaml:"id"`
	Side     string `yaml:"side,omitempty"`
	Price    int64  `yaml:"price,omitempty"`
	Quantity int64  `yaml:"quantity,omitempty"`
}

// Feed operations
const (
	OpAdd    = "add"
	OpCancel = "cancel"
)

// DefaultSequence is the built-in order feed used when no feed file is given
func DefaultSequence() []Command {
	return []Command{
		{Op: OpAdd, OrderID: "SSBT", Side: "buy", Price: 20, Quantity: 80},
		{Op: OpAdd, OrderID: "SST", Side: "buy", Price: 20, Quantity: 30},
		{Op: OpAdd, OrderID: "SSTz", Side: "buy", Price: 10, Quantity: 30},
		{Op: OpAdd, OrderID: "SSTb", Side: "sell", Price: 10, Quantity: 10},
		{Op: OpCancel, OrderID: "SST"},
		{Op: OpCancel, OrderID: "AAA"},
	}
}

// LoadCommands reads a YAML feed file
func LoadCommands(path string) ([]Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}

	var commands []Command
	if err := yaml.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("failed to parse feed file: %w", err)
	}
	return commands, nil
}

// Feeder replays a sequence of commands into the order book and reports
// each outcome
type Feeder struct {
	book        *core.OrderBook
	limiter     *rate.Limiter
	logger      zerolog.Logger
	stopOnError bool

	green  func(format string, a ...interface{}) string
	yellow func(format string, a ...interface{}) string
	red    func(format string, a ...interface{}) string
}

// New creates a Feeder for the given book
func New(book *core.OrderBook, cfg *Config, logger zerolog.Logger) *Feeder {
	return &Feeder{
		book:        book,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		logger:      logger,
		stopOnError: cfg.StopOnError,
		green:       color.New(color.FgGreen).SprintfFunc(),
		yellow:      color.New(color.FgYellow).SprintfFunc(),
		red:         color.New(color.FgRed).SprintfFunc(),
	}
}

// Run feeds the commands in order, one at a time
func (f *Feeder) Run(ctx context.Context, commands []Command) error {
	for _, cmd := range commands {
		if err := f.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		var err error
		switch cmd.Op {
		case OpAdd:
			err = f.addOrder(ctx, cmd)
		case OpCancel:
			f.cancelOrder(ctx, cmd.OrderID)
		default:
			err = fmt.Errorf("unknown feed op %q", cmd.Op)
		}

		if err != nil {
			f.logger.Error().Err(err).Str("order_id", cmd.OrderID).Msg("Command rejected")
			fmt.Println(f.red("%s %s - REJECTED: %v", cmd.Op, cmd.OrderID, err))
			if f.stopOnError {
				return err
			}
		}
	}
	return nil
}

func (f *Feeder) addOrder(ctx context.Context, cmd Command) error {
	side, err := core.SideFromString(cmd.Side)
	if err != nil {
		return err
	}

	order, err := core.NewLimitOrder(
		cmd.OrderID,
		side,
		fpdecimal.FromInt(cmd.Quantity),
		fpdecimal.FromInt(cmd.Price),
	)
	if err != nil {
		return err
	}

	done, err := f.book.Process(ctx, order)
	if err != nil {
		return err
	}

	f.logger.Info().
		Str("order_id", cmd.OrderID).
		Str("side", side.String()).
		Str("processed", done.Processed.String()).
		Str("left", done.Left.String()).
		Bool("stored", done.Stored).
		Int("trades", len(done.Trades)).
		Msg("Order processed")

	switch {
	case done.Left.Equal(fpdecimal.Zero):
		fmt.Println(f.green("add %s - FILLED (%s executed)", cmd.OrderID, done.Processed))
	case done.Processed.GreaterThan(fpdecimal.Zero):
		fmt.Println(f.yellow("add %s - PARTIAL (%s executed, %s resting)", cmd.OrderID, done.Processed, done.Left))
	default:
		fmt.Println(f.green("add %s - RESTING (%s @ %s)", cmd.OrderID, done.Left, order.Price()))
	}
	return nil
}

func (f *Feeder) cancelOrder(ctx context.Context, orderID string) {
	if f.book.CancelOrder(ctx, orderID) {
		f.logger.Info().Str("order_id", orderID).Msg("Order cancelled")
		fmt.Println(f.green("cancel %s - OK", orderID))
		return
	}

	// The reference driver reported one message for every not-live order,
	// whether it was filled or already cancelled.
	reason := "already fully filled"
	if _, seen := f.book.StatusOf(orderID); !seen {
		reason = "no such active order"
	}
	f.logger.Info().Str("order_id", orderID).Str("reason", reason).Msg("Cancel rejected")
	fmt.Println(f.red("cancel %s - FAILED: %s", orderID, reason))
}
