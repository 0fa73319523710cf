package execution

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/gruelbox/simex/collateral"
	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

// Engine is the venue: a registry of markets keyed by instrument, all
// trading against one shared collateral engine. Every caller asking for
// the same instrument gets the same market instance, which is what lets
// independent account sessions observe one consistent book.
type Engine struct {
	Config
	log *logging.Logger

	collateral *collateral.Engine

	mu      sync.RWMutex
	markets map[string]*Market
}

// NewEngine returns an engine with no markets; markets are created on
// first use per instrument.
func NewEngine(log *logging.Logger, config Config) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Engine{
		Config:     config,
		log:        log,
		collateral: collateral.New(log, config.Collateral),
		markets:    map[string]*Market{},
	}
}

// MarketFor returns the market trading the instrument, creating it on
// first request. The same instance is shared by every caller.
func (e *Engine) MarketFor(instrument types.Instrument) (*Market, error) {
	if err := instrument.Validate(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	mkt, ok := e.markets[instrument.Key()]
	e.mu.RUnlock()
	if ok {
		return mkt, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if mkt, ok = e.markets[instrument.Key()]; !ok {
		mkt = NewMarket(e.log, e.Config, instrument, e.collateral)
		e.markets[instrument.Key()] = mkt
		e.log.Info("market created", logging.Instrument(instrument.Key()))
	}
	return mkt, nil
}

// SubmitOrder places an order on the public, funds-checked path of the
// instrument's market.
func (e *Engine) SubmitOrder(sub types.OrderSubmission) (*types.OrderConfirmation, error) {
	mkt, err := e.MarketFor(sub.Instrument)
	if err != nil {
		return nil, err
	}
	return mkt.SubmitOrder(sub)
}

// SubmitOrderUnrestricted places a seeding limit order, skipping the
// funds pre-check. Not part of the public trading surface.
func (e *Engine) SubmitOrderUnrestricted(sub types.OrderSubmission) (*types.OrderConfirmation, error) {
	mkt, err := e.MarketFor(sub.Instrument)
	if err != nil {
		return nil, err
	}
	return mkt.SubmitOrderUnrestricted(sub)
}

// CancelOrder removes the resting order with the given id, whichever
// market it rests on.
func (e *Engine) CancelOrder(orderID string) (*types.Order, error) {
	for _, mkt := range e.allMarkets() {
		o, err := mkt.CancelOrder(orderID)
		if err == nil {
			return o, nil
		}
		if errors.Cause(err) != types.ErrOrderNotFound {
			return nil, err
		}
	}
	return nil, errors.Wrapf(types.ErrOrderNotFound, "id %s", orderID)
}

// CancelAllOrders removes every resting order matching the filters and
// returns the count removed. A nil instrument spans all markets, an
// empty party matches every party.
func (e *Engine) CancelAllOrders(instrument *types.Instrument, party string) (int, error) {
	mkts, err := e.marketsFor(instrument)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, mkt := range mkts {
		n, err := mkt.CancelAllOrders(party)
		if err != nil {
			return count, err
		}
		count += n
	}
	return count, nil
}

// OpenOrders returns snapshots of the party's resting orders, per market
// in arrival order. A nil instrument spans all markets.
func (e *Engine) OpenOrders(party string, instrument *types.Instrument) ([]*types.Order, error) {
	mkts, err := e.marketsFor(instrument)
	if err != nil {
		return nil, err
	}
	var out []*types.Order
	for _, mkt := range mkts {
		out = append(out, mkt.OpenOrders(party)...)
	}
	return out, nil
}

// TradeHistory returns the trades the party took part in, isolated from
// every other party's history. A nil instrument spans all markets.
func (e *Engine) TradeHistory(party string, instrument *types.Instrument) ([]*types.Trade, error) {
	mkts, err := e.marketsFor(instrument)
	if err != nil {
		return nil, err
	}
	var out []*types.Trade
	for _, mkt := range mkts {
		out = append(out, mkt.TradesForParty(party)...)
	}
	return out, nil
}

// Trades returns the public tape of the instrument.
func (e *Engine) Trades(instrument types.Instrument) ([]*types.Trade, error) {
	mkt, err := e.MarketFor(instrument)
	if err != nil {
		return nil, err
	}
	return mkt.Trades(), nil
}

// MarketDepth returns the aggregated book snapshot for the instrument.
func (e *Engine) MarketDepth(instrument types.Instrument, maxLevels uint64) (*types.MarketDepth, error) {
	mkt, err := e.MarketFor(instrument)
	if err != nil {
		return nil, err
	}
	return mkt.MarketDepth(maxLevels), nil
}

// Ticker returns the synchronous market data snapshot for the instrument.
func (e *Engine) Ticker(instrument types.Instrument) (*types.Ticker, error) {
	mkt, err := e.MarketFor(instrument)
	if err != nil {
		return nil, err
	}
	return mkt.Ticker(), nil
}

// Deposit credits a party's balance and returns the updated snapshot.
func (e *Engine) Deposit(party, currency string, amount num.Decimal) (types.Balance, error) {
	return e.collateral.Deposit(party, currency, amount)
}

// Balance returns a snapshot of a party's balance in one currency.
func (e *Engine) Balance(party, currency string) types.Balance {
	return e.collateral.Balance(party, currency)
}

// allMarkets snapshots the registry in deterministic (instrument key)
// order.
func (e *Engine) allMarkets() []*Market {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]string, 0, len(e.markets))
	for k := range e.markets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*Market, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.markets[k])
	}
	return out
}

func (e *Engine) marketsFor(instrument *types.Instrument) ([]*Market, error) {
	if instrument == nil {
		return e.allMarkets(), nil
	}
	mkt, err := e.MarketFor(*instrument)
	if err != nil {
		return nil, err
	}
	return []*Market{mkt}, nil
}
