package matching

import (
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

// PriceLevel holds the resting orders at one price, in arrival order. The
// slice order is the time priority: fills always start at index zero.
type PriceLevel struct {
	price  num.Decimal
	orders []*types.Order
	volume num.Decimal
}

// NewPriceLevel returns an empty level for the given price.
func NewPriceLevel(price num.Decimal) *PriceLevel {
	return &PriceLevel{
		price:  price,
		volume: num.Zero(),
	}
}

func (l *PriceLevel) addOrder(o *types.Order) {
	l.orders = append(l.orders, o)
	l.volume = l.volume.Add(o.Remaining)
}

func (l *PriceLevel) removeOrder(index int) {
	l.volume = l.volume.Sub(l.orders[index].Remaining)
	copy(l.orders[index:], l.orders[index+1:])
	l.orders[len(l.orders)-1] = nil
	l.orders = l.orders[:len(l.orders)-1]
}

// uncross fills the aggressive order against this level in time priority.
// Trades are created at the level price (the maker's price). Fully filled
// makers are popped off the front of the queue.
func (l *PriceLevel) uncross(agg *types.Order) (bool, []*types.Trade, []*types.Order) {
	var (
		trades   []*types.Trade
		impacted []*types.Order
	)
	for len(l.orders) > 0 && agg.Remaining.IsPositive() {
		maker := l.orders[0]
		size := num.MinD(agg.Remaining, maker.Remaining)

		buyer, seller := maker.Party, agg.Party
		if agg.Side == types.SideBuy {
			buyer, seller = agg.Party, maker.Party
		}
		trade := &types.Trade{
			Instrument:   agg.Instrument,
			Price:        l.price,
			Size:         size,
			Buyer:        buyer,
			Seller:       seller,
			MakerOrderID: maker.ID,
			TakerOrderID: agg.ID,
			Aggressor:    agg.Side,
		}

		maker.Fill(l.price, size)
		agg.Fill(l.price, size)
		l.volume = l.volume.Sub(size)

		trades = append(trades, trade)
		impacted = append(impacted, maker)

		if maker.Remaining.IsZero() {
			l.orders[0] = nil
			l.orders = l.orders[1:]
		}
	}
	return agg.Remaining.IsZero(), trades, impacted
}
