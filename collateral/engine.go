package collateral

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

// Engine owns every party's balances, one Balance per party and currency.
// All mutation goes through the engine and runs under one lock, so a
// transfer touching two parties is atomic and the invariants
// total >= 0, frozen >= 0, available = total - frozen >= 0 hold at every
// observable point.
type Engine struct {
	Config
	log *logging.Logger

	mu       sync.Mutex
	balances map[string]map[string]*types.Balance
}

// New instantiates a new collateral engine.
func New(log *logging.Logger, conf Config) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())
	return &Engine{
		Config:   conf,
		log:      log,
		balances: map[string]map[string]*types.Balance{},
	}
}

// Deposit credits the party's total balance and returns the updated
// balance snapshot.
func (e *Engine) Deposit(party, currency string, amount num.Decimal) (types.Balance, error) {
	if err := validate(party, currency, amount); err != nil {
		return types.Balance{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.balance(party, currency)
	b.Total = b.Total.Add(amount)

	if e.log.GetLevel() == logging.DebugLevel {
		e.log.Debug("deposit",
			logging.Party(party),
			logging.String("currency", currency),
			logging.Decimal("amount", amount),
			logging.Decimal("total", b.Total))
	}
	return *b, nil
}

// Reserve freezes part of the party's available balance for an open
// order. Fails with ErrInsufficientFunds when the available balance does
// not cover the amount.
func (e *Engine) Reserve(party, currency string, amount num.Decimal) error {
	if err := validate(party, currency, amount); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.balance(party, currency)
	if b.Available().LessThan(amount) {
		return errors.Wrapf(types.ErrInsufficientFunds,
			"%s %s available, %s required", b.Available(), currency, amount)
	}
	b.Frozen = b.Frozen.Add(amount)
	return nil
}

// Release returns previously reserved funds to the available balance. No
// funds move between parties. Releasing more than is frozen is a
// bookkeeping bug and fails with ErrInvariantViolation.
func (e *Engine) Release(party, currency string, amount num.Decimal) error {
	if err := validate(party, currency, amount); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.balance(party, currency)
	if b.Frozen.LessThan(amount) {
		return errors.Wrapf(types.ErrInvariantViolation,
			"release of %s %s with only %s frozen for %s", amount, currency, b.Frozen, party)
	}
	b.Frozen = b.Frozen.Sub(amount)
	return nil
}

// Transfer settles one leg of a trade: it moves the amount out of the
// from party's total balance, and out of its frozen balance too when the
// funds were reserved, into the to party's total. The whole movement
// happens under the engine lock.
func (e *Engine) Transfer(from, to, currency string, amount num.Decimal, fromReserved bool) error {
	if err := validate(from, currency, amount); err != nil {
		return err
	}
	if to == "" {
		return errors.Wrap(types.ErrInvalidParty, "transfer to empty party")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	src := e.balance(from, currency)
	if fromReserved {
		if src.Frozen.LessThan(amount) {
			return errors.Wrapf(types.ErrInsufficientFunds,
				"%s %s frozen for %s, %s required", src.Frozen, currency, from, amount)
		}
		src.Frozen = src.Frozen.Sub(amount)
	} else if src.Available().LessThan(amount) {
		return errors.Wrapf(types.ErrInsufficientFunds,
			"%s %s available for %s, %s required", src.Available(), currency, from, amount)
	}
	src.Total = src.Total.Sub(amount)

	dst := e.balance(to, currency)
	dst.Total = dst.Total.Add(amount)

	if e.log.GetLevel() == logging.DebugLevel {
		e.log.Debug("transfer",
			logging.String("from", from),
			logging.String("to", to),
			logging.String("currency", currency),
			logging.Decimal("amount", amount))
	}
	return nil
}

// Balance returns a snapshot of the party's balance in the given
// currency, zero for unknown accounts.
func (e *Engine) Balance(party, currency string) types.Balance {
	e.mu.Lock()
	defer e.mu.Unlock()

	if accounts, ok := e.balances[party]; ok {
		if b, ok := accounts[currency]; ok {
			return *b
		}
	}
	return types.Balance{
		Currency: currency,
		Total:    num.Zero(),
		Frozen:   num.Zero(),
	}
}

// Balances returns a snapshot of every currency balance the party holds.
func (e *Engine) Balances(party string) []types.Balance {
	e.mu.Lock()
	defer e.mu.Unlock()

	accounts := e.balances[party]
	out := make([]types.Balance, 0, len(accounts))
	for _, b := range accounts {
		out = append(out, *b)
	}
	return out
}

// balance returns the live balance record, creating it on first use.
// Callers must hold the engine lock.
func (e *Engine) balance(party, currency string) *types.Balance {
	accounts, ok := e.balances[party]
	if !ok {
		accounts = map[string]*types.Balance{}
		e.balances[party] = accounts
	}
	b, ok := accounts[currency]
	if !ok {
		b = &types.Balance{
			Currency: currency,
			Total:    num.Zero(),
			Frozen:   num.Zero(),
		}
		accounts[currency] = b
	}
	return b
}

func validate(party, currency string, amount num.Decimal) error {
	if party == "" {
		return types.ErrInvalidParty
	}
	if currency == "" {
		return errors.Wrap(types.ErrInvalidInstrument, "empty currency code")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(types.ErrInvalidAmount, "amount %s is not positive", amount)
	}
	return nil
}
