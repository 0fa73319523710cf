package types

import (
	"time"

	"github.com/gruelbox/simex/types/num"
)

// Trade records one fill. Trades are immutable once created: the tape is
// append-only and entries are handed out as clones.
type Trade struct {
	ID         string
	Instrument Instrument

	// Price is always the maker order's price, never the taker's.
	Price num.Decimal
	Size  num.Decimal

	Buyer  string
	Seller string

	MakerOrderID string
	TakerOrderID string

	// Aggressor is the side of the incoming order that consumed the
	// resting one.
	Aggressor Side

	Seq       uint64
	CreatedAt time.Time
}

// Notional is the counter currency value exchanged in the trade.
func (t *Trade) Notional() num.Decimal {
	return t.Price.Mul(t.Size)
}

// Clone returns a copy of the trade.
func (t *Trade) Clone() *Trade {
	cpy := *t
	return &cpy
}
