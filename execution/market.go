package execution

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gruelbox/simex/collateral"
	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/matching"
	"github.com/gruelbox/simex/metrics"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

// Market is the matching authority for one instrument. Every submission,
// cancellation and query for the instrument runs under the market mutex,
// spanning validation, matching and settlement, so price-time priority
// and the trade tape are deterministic under concurrent callers. The
// collateral engine has its own lock, always taken after the market one.
type Market struct {
	log *logging.Logger

	mu         sync.Mutex
	instrument types.Instrument
	book       *matching.OrderBook
	collateral *collateral.Engine

	// tape is the shared, append-only trade history of the instrument.
	tape []*types.Trade

	orderSeq uint64
}

// NewMarket returns a market for the instrument, trading against the
// shared collateral engine.
func NewMarket(log *logging.Logger, config Config, instrument types.Instrument, collateralEngine *collateral.Engine) *Market {
	log = log.Named(instrument.Key())
	return &Market{
		log:        log,
		instrument: instrument,
		book:       matching.NewOrderBook(log, config.Matching, instrument),
		collateral: collateralEngine,
	}
}

// Instrument returns the instrument this market trades.
func (m *Market) Instrument() types.Instrument {
	return m.instrument
}

// SubmitOrder places an order on the public, funds-checked path. All
// pre-checks run before any state is touched: a failed submission leaves
// the book and every balance exactly as they were.
func (m *Market) SubmitOrder(sub types.OrderSubmission) (*types.OrderConfirmation, error) {
	return m.submit(sub, true)
}

// SubmitOrderUnrestricted places a limit order without the funds
// pre-check or reservation. It exists solely so market makers can seed a
// book, and is never called from SubmitOrder. Settlement still moves real
// funds when a seeded order later trades.
func (m *Market) SubmitOrderUnrestricted(sub types.OrderSubmission) (*types.OrderConfirmation, error) {
	if sub.Type != types.OrderTypeLimit {
		return nil, errors.Wrap(types.ErrInvalidOrderType, "unrestricted path accepts limit orders only")
	}
	return m.submit(sub, false)
}

func (m *Market) submit(sub types.OrderSubmission, checkFunds bool) (*types.OrderConfirmation, error) {
	if err := sub.Validate(); err != nil {
		metrics.OrderRejectionInc(m.instrument.Key())
		return nil, err
	}
	if sub.Instrument != m.instrument {
		return nil, errors.Wrapf(types.ErrInvalidInstrument,
			"submission for %s sent to the %s market", sub.Instrument, m.instrument)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.orderSeq++
	order := sub.IntoOrder(uuid.NewString(), m.orderSeq, time.Now())

	if checkFunds {
		if err := m.preCheck(order); err != nil {
			metrics.OrderRejectionInc(m.instrument.Key())
			return nil, err
		}
	}

	conf, err := m.book.SubmitOrder(order)
	if err != nil {
		// the book rejected after a successful reservation, hand the
		// funds back before propagating
		if rerr := m.releaseReservation(order); rerr != nil {
			m.log.Error("failed to release reservation of rejected order",
				logging.OrderID(order.ID), logging.Error(rerr))
		}
		return nil, err
	}

	if err := m.settle(conf); err != nil {
		m.log.Error("settlement failed mid-match",
			logging.OrderID(order.ID),
			logging.Instrument(m.instrument.Key()),
			logging.Error(err))
		return nil, err
	}

	if order.Type == types.OrderTypeMarket && order.Remaining.IsPositive() {
		m.log.Error("market order left unfilled despite liquidity pre-check",
			logging.OrderID(order.ID),
			logging.Decimal("remaining", order.Remaining))
		return nil, errors.Wrapf(types.ErrInvariantViolation,
			"market order %s left %s unfilled", order.ID, order.Remaining)
	}

	m.tape = append(m.tape, conf.Trades...)

	resting := 0
	if order.Type == types.OrderTypeLimit && order.Remaining.IsPositive() {
		resting++
	}
	for _, maker := range conf.PassiveOrdersAffected {
		if maker.IsFinished() {
			resting--
		}
	}
	metrics.OrderGaugeAdd(resting, m.instrument.Key())
	metrics.OrderCounterInc(m.instrument.Key())
	metrics.TradeCounterAdd(float64(len(conf.Trades)), m.instrument.Key())
	return conf, nil
}

// preCheck enforces the liquidity and funds rules before anything
// mutates. Limit orders end the pre-check with their reservation in
// place; market orders reserve nothing and settle from available funds.
func (m *Market) preCheck(o *types.Order) error {
	if o.Type == types.OrderTypeMarket {
		available := m.book.VolumeOpposing(o.Side)
		if available.LessThan(o.Size) {
			return errors.Wrapf(types.ErrInsufficientLiquidity,
				"%s resting against a market %s of %s", available, o.Side, o.Size)
		}
		if o.Side == types.SideBuy {
			cost, err := m.book.CostForVolume(o.Side, o.Size)
			if err != nil {
				return err
			}
			if m.collateral.Balance(o.Party, m.instrument.Counter).Available().LessThan(cost) {
				return errors.Wrapf(types.ErrInsufficientFunds,
					"worst case cost %s %s", cost, m.instrument.Counter)
			}
		} else if m.collateral.Balance(o.Party, m.instrument.Base).Available().LessThan(o.Size) {
			return errors.Wrapf(types.ErrInsufficientFunds,
				"%s %s required", o.Size, m.instrument.Base)
		}
		return nil
	}

	amount, currency := m.reservationFor(o)
	if err := m.collateral.Reserve(o.Party, currency, amount); err != nil {
		return err
	}
	o.Reserved = true
	return nil
}

// reservationFor is the amount still frozen for the unfilled part of a
// reserved order: limit price times remaining in the counter currency for
// a bid, the remaining amount in the base currency for an ask.
func (m *Market) reservationFor(o *types.Order) (num.Decimal, string) {
	if o.Side == types.SideBuy {
		return o.Price.Mul(o.Remaining), m.instrument.Counter
	}
	return o.Remaining, m.instrument.Base
}

// settle moves funds for every fill of a confirmation. Failures here mean
// a pre-check or bookkeeping bug: they are reported as invariant
// violations and never swallowed.
func (m *Market) settle(conf *types.OrderConfirmation) error {
	for i, t := range conf.Trades {
		maker := conf.PassiveOrdersAffected[i]
		buyOrder, sellOrder := conf.Order, maker
		if maker.Side == types.SideBuy {
			buyOrder, sellOrder = maker, conf.Order
		}

		// counter leg, buyer pays the notional
		if err := m.collateral.Transfer(t.Buyer, t.Seller, m.instrument.Counter, t.Notional(), buyOrder.Reserved); err != nil {
			return errors.Wrapf(types.ErrInvariantViolation,
				"counter leg of trade %s: %v", t.ID, err)
		}
		// a reserved bid froze funds at its limit price; a fill below
		// that leaves the difference frozen, hand it back
		if buyOrder.Reserved && buyOrder.Price.GreaterThan(t.Price) {
			refund := buyOrder.Price.Sub(t.Price).Mul(t.Size)
			if err := m.collateral.Release(t.Buyer, m.instrument.Counter, refund); err != nil {
				return errors.Wrapf(types.ErrInvariantViolation,
					"reservation refund of trade %s: %v", t.ID, err)
			}
		}
		// base leg, seller delivers the amount
		if err := m.collateral.Transfer(t.Seller, t.Buyer, m.instrument.Base, t.Size, sellOrder.Reserved); err != nil {
			return errors.Wrapf(types.ErrInvariantViolation,
				"base leg of trade %s: %v", t.ID, err)
		}
	}
	return nil
}

// CancelOrder removes a resting order and releases whatever reservation
// is still held for its remaining quantity. Unknown, filled and already
// cancelled orders fail with ErrOrderNotFound and nothing is released.
func (m *Market) CancelOrder(orderID string) (*types.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, err := m.book.CancelOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := m.releaseReservation(o); err != nil {
		m.log.Error("failed to release reservation on cancel",
			logging.OrderID(orderID), logging.Error(err))
		return nil, err
	}
	metrics.OrderGaugeAdd(-1, m.instrument.Key())
	return o.Clone(), nil
}

// CancelAllOrders removes every resting order belonging to the party, or
// every resting order on the market when party is empty, and returns the
// count removed.
func (m *Market) CancelAllOrders(party string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cancelled := m.book.CancelAllOrders(party)
	for _, o := range cancelled {
		if err := m.releaseReservation(o); err != nil {
			m.log.Error("failed to release reservation on cancel-all",
				logging.OrderID(o.ID), logging.Error(err))
			return 0, err
		}
	}
	metrics.OrderGaugeAdd(-len(cancelled), m.instrument.Key())
	return len(cancelled), nil
}

func (m *Market) releaseReservation(o *types.Order) error {
	if !o.Reserved || !o.Remaining.IsPositive() {
		return nil
	}
	amount, currency := m.reservationFor(o)
	if err := m.collateral.Release(o.Party, currency, amount); err != nil {
		return errors.Wrapf(types.ErrInvariantViolation,
			"release for order %s: %v", o.ID, err)
	}
	// drop the flag so a release can never happen twice
	o.Reserved = false
	return nil
}

// OpenOrders returns snapshots of the party's resting orders in arrival
// order.
func (m *Market) OpenOrders(party string) []*types.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	resting := m.book.GetOrdersPerParty(party)
	out := make([]*types.Order, 0, len(resting))
	for _, o := range resting {
		out = append(out, o.Clone())
	}
	return out
}

// TradesForParty returns snapshots of the trades in which the party took
// part, as buyer or seller. Other parties' trades are never visible
// through this call.
func (m *Market) TradesForParty(party string) []*types.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*types.Trade
	for _, t := range m.tape {
		if t.Buyer == party || t.Seller == party {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Trades returns a snapshot of the whole public tape, oldest first.
func (m *Market) Trades() []*types.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.Trade, 0, len(m.tape))
	for _, t := range m.tape {
		out = append(out, t.Clone())
	}
	return out
}

// MarketDepth returns the aggregated book snapshot, maxLevels per side,
// zero meaning all levels.
func (m *Market) MarketDepth(maxLevels uint64) *types.MarketDepth {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.Depth(maxLevels)
}

// Ticker returns the synchronous market data snapshot.
func (m *Market) Ticker() *types.Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()

	ticker := &types.Ticker{Instrument: m.instrument}
	if bid, ok := m.book.BestBid(); ok {
		ticker.BestBid = &bid
	}
	if ask, ok := m.book.BestAsk(); ok {
		ticker.BestAsk = &ask
	}
	if last, ok := m.book.LastTraded(); ok {
		ticker.LastTraded = &last
	}
	return ticker
}
