package matching

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

// OrderBook holds both sides of one instrument's market and uncrosses
// incoming orders against them. It does no funds accounting: callers are
// expected to have validated and reserved before submitting, and to
// settle the returned trades. The book is not safe for concurrent use;
// the owning market serializes access.
type OrderBook struct {
	log        *logging.Logger
	instrument types.Instrument

	buy  *OrderBookSide
	sell *OrderBookSide

	// lastTraded is nil until the first trade on the instrument.
	lastTraded *num.Decimal

	ordersByID map[string]*types.Order
	tradeSeq   uint64
}

// NewOrderBook returns an empty book for the given instrument.
func NewOrderBook(log *logging.Logger, config Config, instrument types.Instrument) *OrderBook {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &OrderBook{
		log:        log,
		instrument: instrument,
		buy:        newSide(log, types.SideBuy),
		sell:       newSide(log, types.SideSell),
		ordersByID: map[string]*types.Order{},
	}
}

// Instrument returns the instrument the book trades.
func (b *OrderBook) Instrument() types.Instrument {
	return b.instrument
}

// SubmitOrder uncrosses the order against the opposite side and, for
// limit orders, rests any leftover quantity at its price level. The
// returned confirmation aligns Trades[i] with PassiveOrdersAffected[i].
func (b *OrderBook) SubmitOrder(o *types.Order) (*types.OrderConfirmation, error) {
	if err := b.validateOrder(o); err != nil {
		return nil, err
	}

	trades, impacted := b.oppositeSide(o.Side).uncross(o)
	now := time.Now()
	for _, trade := range trades {
		b.tradeSeq++
		trade.ID = uuid.NewString()
		trade.Seq = b.tradeSeq
		trade.CreatedAt = now
		price := trade.Price
		b.lastTraded = &price
	}
	for _, maker := range impacted {
		if maker.IsFinished() {
			delete(b.ordersByID, maker.ID)
		}
	}

	if o.Type == types.OrderTypeLimit && o.Remaining.IsPositive() {
		b.sideFor(o.Side).addOrder(o)
		b.ordersByID[o.ID] = o
	}

	return &types.OrderConfirmation{
		Order:                 o,
		Trades:                trades,
		PassiveOrdersAffected: impacted,
	}, nil
}

// CancelOrder removes a resting order from the book. Unknown, filled and
// already cancelled ids all fail with ErrOrderNotFound.
func (b *OrderBook) CancelOrder(orderID string) (*types.Order, error) {
	o, ok := b.ordersByID[orderID]
	if !ok {
		return nil, errors.Wrapf(types.ErrOrderNotFound, "id %s", orderID)
	}
	if _, err := b.sideFor(o.Side).RemoveOrder(o); err != nil {
		b.log.Error("order in lookup table but not on its side",
			logging.OrderID(orderID),
			logging.Instrument(b.instrument.Key()),
			logging.Error(err))
		return nil, errors.Wrapf(types.ErrInvariantViolation, "order %s not on book side", orderID)
	}
	delete(b.ordersByID, orderID)
	o.Status = types.OrderStatusCancelled
	return o, nil
}

// CancelAllOrders removes every resting order belonging to the party, or
// every resting order when party is empty. Orders come back in arrival
// order.
func (b *OrderBook) CancelAllOrders(party string) []*types.Order {
	matched := make([]*types.Order, 0, len(b.ordersByID))
	for _, o := range b.ordersByID {
		if party == "" || o.Party == party {
			matched = append(matched, o)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Seq < matched[j].Seq })
	for _, o := range matched {
		if _, err := b.CancelOrder(o.ID); err != nil {
			b.log.Error("failed to cancel resting order",
				logging.OrderID(o.ID),
				logging.Error(err))
		}
	}
	return matched
}

// GetOrderByID returns the resting order with the given id.
func (b *OrderBook) GetOrderByID(orderID string) (*types.Order, error) {
	o, ok := b.ordersByID[orderID]
	if !ok {
		return nil, errors.Wrapf(types.ErrOrderNotFound, "id %s", orderID)
	}
	return o, nil
}

// GetOrdersPerParty returns the party's resting orders in arrival order.
func (b *OrderBook) GetOrdersPerParty(party string) []*types.Order {
	orders := make([]*types.Order, 0, len(b.ordersByID))
	for _, o := range b.ordersByID {
		if o.Party == party {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Seq < orders[j].Seq })
	return orders
}

// BestBid returns the best bid price, or false if there are no bids.
func (b *OrderBook) BestBid() (num.Decimal, bool) {
	price, _, err := b.buy.BestPriceAndVolume()
	return price, err == nil
}

// BestAsk returns the best ask price, or false if there are no asks.
func (b *OrderBook) BestAsk() (num.Decimal, bool) {
	price, _, err := b.sell.BestPriceAndVolume()
	return price, err == nil
}

// LastTraded returns the price of the most recent trade, or false before
// the first trade.
func (b *OrderBook) LastTraded() (num.Decimal, bool) {
	if b.lastTraded == nil {
		return num.Zero(), false
	}
	return *b.lastTraded, true
}

// VolumeOpposing is the total resting volume on the side an order of the
// given side would trade against.
func (b *OrderBook) VolumeOpposing(side types.Side) num.Decimal {
	return b.oppositeSide(side).totalVolume()
}

// CostForVolume walks the opposing side and prices the given volume at
// the currently resting prices, without touching the book. Fails with
// ErrInsufficientLiquidity when the volume cannot be absorbed.
func (b *OrderBook) CostForVolume(side types.Side, volume num.Decimal) (num.Decimal, error) {
	return b.oppositeSide(side).costForVolume(volume)
}

// Depth returns the aggregated book snapshot, maxLevels per side, zero
// meaning all levels.
func (b *OrderBook) Depth(maxLevels uint64) *types.MarketDepth {
	return &types.MarketDepth{
		Instrument: b.instrument,
		Buy:        b.buy.depth(maxLevels),
		Sell:       b.sell.depth(maxLevels),
	}
}

func (b *OrderBook) validateOrder(o *types.Order) error {
	if err := o.Instrument.Validate(); err != nil {
		return err
	}
	if o.Instrument != b.instrument {
		return errors.Wrapf(types.ErrInvalidInstrument,
			"order for %s submitted to the %s book", o.Instrument, b.instrument)
	}
	if !o.Remaining.IsPositive() || !o.Remaining.Equal(o.Size) {
		return errors.Wrapf(types.ErrInvalidAmount, "remaining %s of %s", o.Remaining, o.Size)
	}
	if o.Type == types.OrderTypeLimit && o.Price == nil {
		return errors.Wrap(types.ErrInvalidPrice, "limit order requires a price")
	}
	return nil
}

func (b *OrderBook) sideFor(side types.Side) *OrderBookSide {
	if side == types.SideBuy {
		return b.buy
	}
	return b.sell
}

func (b *OrderBook) oppositeSide(side types.Side) *OrderBookSide {
	if side == types.SideBuy {
		return b.sell
	}
	return b.buy
}

func (b *OrderBook) getNumberOfBuyLevels() int {
	return len(b.buy.levels)
}

func (b *OrderBook) getNumberOfSellLevels() int {
	return len(b.sell.levels)
}

func (b *OrderBook) getTotalBuyOrders() int64 {
	return b.buy.getOrderCount()
}

func (b *OrderBook) getTotalSellOrders() int64 {
	return b.sell.getOrderCount()
}
