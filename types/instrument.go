package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// Instrument identifies one order book as a pair of currencies: amounts are
// denominated in the base currency and prices in the counter currency.
type Instrument struct {
	Base    string
	Counter string
}

// Key returns the canonical market identifier for the instrument.
func (i Instrument) Key() string {
	return fmt.Sprintf("%s/%s", i.Base, i.Counter)
}

func (i Instrument) String() string {
	return i.Key()
}

// Validate sanity-checks the instrument.
func (i Instrument) Validate() error {
	if i.Base == "" || i.Counter == "" {
		return errors.Wrap(ErrInvalidInstrument, "currency codes must not be empty")
	}
	if i.Base == i.Counter {
		return errors.Wrapf(ErrInvalidInstrument, "base and counter currency are both %q", i.Base)
	}
	return nil
}
