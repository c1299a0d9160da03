package memory

import (
	"fmt"
	"strings"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/altmarkets/limitbook/pkg/core"
)

// priceLevel is one price level: a FIFO queue of resting order ids. The
// queue holds ids rather than orders; the backend's order map is the single
// owner of every order.
type priceLevel struct {
	priceStr  string
	priceDecm fpdecimal.Decimal
	queue     []string
	next      *priceLevel
	prev      *priceLevel
}

func newPriceLevel(price fpdecimal.Decimal) *priceLevel {
	return &priceLevel{
		priceStr:  price.String(),
		priceDecm: price,
	}
}

// orderSide keeps the price levels of one side as a doubly-linked list in
// priority order (bids highest first, asks lowest first), indexed by price.
type orderSide struct {
	side   core.Side
	head   *priceLevel
	tail   *priceLevel
	levels map[string]*priceLevel
}

func newOrderSide(side core.Side) *orderSide {
	return &orderSide{
		side:   side,
		levels: make(map[string]*priceLevel),
	}
}

// before reports whether price a takes priority over price b on this side
func (os *orderSide) before(a, b fpdecimal.Decimal) bool {
	if os.side == core.Buy {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

// insert links a new level at its priority position
func (os *orderSide) insert(level *priceLevel) {
	os.levels[level.priceStr] = level

	if os.head == nil {
		os.head = level
		os.tail = level
		return
	}

	if os.before(level.priceDecm, os.head.priceDecm) {
		level.next = os.head
		os.head.prev = level
		os.head = level
		return
	}
	if !os.before(level.priceDecm, os.tail.priceDecm) {
		level.prev = os.tail
		os.tail.next = level
		os.tail = level
		return
	}

	current := os.head
	for current != nil && !os.before(level.priceDecm, current.priceDecm) {
		current = current.next
	}
	level.next = current
	level.prev = current.prev
	current.prev.next = level
	current.prev = level
}

// unlink removes an emptied level from the side
func (os *orderSide) unlink(level *priceLevel) {
	delete(os.levels, level.priceStr)

	if level.prev != nil {
		level.prev.next = level.next
	} else {
		os.head = level.next
	}

	if level.next != nil {
		level.next.prev = level.prev
	} else {
		os.tail = level.prev
	}
}

// String implements fmt.Stringer interface
func (os *orderSide) String() string {
	sb := strings.Builder{}
	current := os.head

	for current != nil {
		sb.WriteString(fmt.Sprintf("\n%s -> orders: %d", current.priceStr, len(current.queue)))
		current = current.next
	}

	return sb.String()
}

// MemoryBackend implements core.BookBackend with in-memory storage. It is
// not internally synchronized; the order book serializes every operation,
// so the backend is only ever touched from one critical section at a time.
type MemoryBackend struct {
	orders   map[string]*core.Order
	bids     *orderSide
	asks     *orderSide
	statuses map[string]core.Status
}

// NewMemoryBackend creates new instance of MemoryBackend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		orders:   make(map[string]*core.Order),
		bids:     newOrderSide(core.Buy),
		asks:     newOrderSide(core.Sell),
		statuses: make(map[string]core.Status),
	}
}

func (b *MemoryBackend) sideOf(side core.Side) *orderSide {
	if side == core.Buy {
		return b.bids
	}
	return b.asks
}

// GetOrder retrieves a live order by ID
func (b *MemoryBackend) GetOrder(orderID string) *core.Order {
	return b.orders[orderID]
}

// StoreOrder registers an order as live
func (b *MemoryBackend) StoreOrder(order *core.Order) error {
	if _, exists := b.orders[order.ID()]; exists {
		return core.ErrOrderExists
	}

	b.orders[order.ID()] = order
	return nil
}

// DeleteOrder removes an order from the live registry. The ledger entry
// is retained unchanged.
func (b *MemoryBackend) DeleteOrder(orderID string) {
	delete(b.orders, orderID)
}

// IsLive reports whether an order is registered as live
func (b *MemoryBackend) IsLive(orderID string) bool {
	_, ok := b.orders[orderID]
	return ok
}

// AppendToSide adds an order to the back of the FIFO queue at its price,
// creating the price level if absent
func (b *MemoryBackend) AppendToSide(side core.Side, order *core.Order) {
	orderSide := b.sideOf(side)
	priceStr := order.Price().String()

	level, ok := orderSide.levels[priceStr]
	if !ok {
		level = newPriceLevel(order.Price())
		orderSide.insert(level)
	}
	level.queue = append(level.queue, order.ID())
}

// RemoveFromSide removes a specific order from its level's queue, wherever
// it sits in the queue. An emptied level is removed from the side.
func (b *MemoryBackend) RemoveFromSide(side core.Side, order *core.Order) bool {
	orderSide := b.sideOf(side)
	priceStr := order.Price().String()

	level, ok := orderSide.levels[priceStr]
	if !ok {
		return false
	}

	for i, id := range level.queue {
		if id == order.ID() {
			level.queue = append(level.queue[:i], level.queue[i+1:]...)
			if len(level.queue) == 0 {
				orderSide.unlink(level)
			}
			return true
		}
	}
	return false
}

// BestPrice returns the highest bid or lowest ask, depending on side
func (b *MemoryBackend) BestPrice(side core.Side) (fpdecimal.Decimal, bool) {
	orderSide := b.sideOf(side)
	if orderSide.head == nil {
		return fpdecimal.Zero, false
	}
	return orderSide.head.priceDecm, true
}

// FrontOrder returns the head of the FIFO queue at the given price without
// removing it, or nil if the level does not exist
func (b *MemoryBackend) FrontOrder(side core.Side, price fpdecimal.Decimal) *core.Order {
	orderSide := b.sideOf(side)

	level, ok := orderSide.levels[price.String()]
	if !ok {
		return nil
	}
	return b.orders[level.queue[0]]
}

// PopFront removes the head of the FIFO queue at the given price. An
// emptied level disappears from the side immediately.
func (b *MemoryBackend) PopFront(side core.Side, price fpdecimal.Decimal) {
	orderSide := b.sideOf(side)

	level, ok := orderSide.levels[price.String()]
	if !ok {
		return
	}

	level.queue = level.queue[1:]
	if len(level.queue) == 0 {
		orderSide.unlink(level)
	}
}

// SetStatus writes the permanent status ledger. The ledger grows for the
// lifetime of the process and is never evicted.
func (b *MemoryBackend) SetStatus(orderID string, status core.Status) {
	b.statuses[orderID] = status
}

// StatusOf returns the ledger status for an order id
func (b *MemoryBackend) StatusOf(orderID string) (core.Status, bool) {
	status, ok := b.statuses[orderID]
	return status, ok
}

// Prices returns the prices of one side in priority order
func (b *MemoryBackend) Prices(side core.Side) []fpdecimal.Decimal {
	orderSide := b.sideOf(side)

	prices := make([]fpdecimal.Decimal, 0)
	for current := orderSide.head; current != nil; current = current.next {
		prices = append(prices, current.priceDecm)
	}
	return prices
}

// OrdersAt returns the resting orders at a price in FIFO order
func (b *MemoryBackend) OrdersAt(side core.Side, price fpdecimal.Decimal) []*core.Order {
	orderSide := b.sideOf(side)

	level, ok := orderSide.levels[price.String()]
	if !ok {
		return []*core.Order{}
	}

	orders := make([]*core.Order, 0, len(level.queue))
	for _, id := range level.queue {
		orders = append(orders, b.orders[id])
	}
	return orders
}

// SideString renders one side for diagnostics
func (b *MemoryBackend) SideString(side core.Side) string {
	return b.sideOf(side).String()
}

// Ensure MemoryBackend implements core.BookBackend
var _ core.BookBackend = (*MemoryBackend)(nil)
