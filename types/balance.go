package types

import "github.com/gruelbox/simex/types/num"

// Balance holds one party's funds in one currency. The available amount is
// always derived, never stored.
type Balance struct {
	Currency string
	Total    num.Decimal
	Frozen   num.Decimal
}

// Available is the portion of the total balance not committed to open
// orders.
func (b Balance) Available() num.Decimal {
	return b.Total.Sub(b.Frozen)
}
