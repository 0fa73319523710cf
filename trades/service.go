package trades

import (
	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/types"
)

// TradeStore is the source of per-party trade history, implemented by the
// execution engine.
type TradeStore interface {
	TradeHistory(party string, instrument *types.Instrument) ([]*types.Trade, error)
}

// Svc is the trade history view handed to account sessions: a read-only
// filter over the shared trade tape, scoped to one party per call. A
// party only ever sees trades it was the buyer or seller of.
type Svc struct {
	Config
	log   *logging.Logger
	store TradeStore
}

// NewService instantiates the trades service.
func NewService(log *logging.Logger, config Config, store TradeStore) *Svc {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())
	return &Svc{
		Config: config,
		log:    log,
		store:  store,
	}
}

// TradeHistory returns the party's trades, oldest first, capped at the
// configured maximum page size. A nil instrument spans every market.
func (s *Svc) TradeHistory(party string, instrument *types.Instrument) ([]*types.Trade, error) {
	if party == "" {
		return nil, types.ErrInvalidParty
	}
	trades, err := s.store.TradeHistory(party, instrument)
	if err != nil {
		return nil, err
	}
	if s.PageSizeMaximum > 0 && uint64(len(trades)) > s.PageSizeMaximum {
		trades = trades[:s.PageSizeMaximum]
	}
	return trades, nil
}
