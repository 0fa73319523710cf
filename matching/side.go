package matching

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

var (
	// ErrNoOrdersOnSide signals a top-of-book query against an empty side
	ErrNoOrdersOnSide = errors.New("no orders on the book side")
)

// OrderBookSide represents one side of the book, either buy or sell.
// Levels are kept sorted with the best price at the end of the slice:
// ascending for the buy side, descending for the sell side. That keeps
// removal of consumed levels cheap during uncrossing.
type OrderBookSide struct {
	side   types.Side
	log    *logging.Logger
	levels []*PriceLevel
}

func newSide(log *logging.Logger, side types.Side) *OrderBookSide {
	return &OrderBookSide{
		side: side,
		log:  log,
	}
}

func (s *OrderBookSide) addOrder(o *types.Order) {
	s.getPriceLevel(*o.Price).addOrder(o)
}

// BestPriceAndVolume returns the top of book price and volume.
// Returns an error if the book side is empty.
func (s *OrderBookSide) BestPriceAndVolume() (num.Decimal, num.Decimal, error) {
	if len(s.levels) <= 0 {
		return num.Zero(), num.Zero(), ErrNoOrdersOnSide
	}
	last := len(s.levels) - 1
	return s.levels[last].price, s.levels[last].volume, nil
}

// bestOrder returns the maker candidate at the top of the side.
func (s *OrderBookSide) bestOrder() *types.Order {
	if len(s.levels) <= 0 {
		return nil
	}
	best := s.levels[len(s.levels)-1]
	if len(best.orders) <= 0 {
		return nil
	}
	return best.orders[0]
}

// RemoveOrder extracts a resting order from the side.
func (s *OrderBookSide) RemoveOrder(o *types.Order) (*types.Order, error) {
	// first find the price level of the order
	var i int
	if s.side == types.SideBuy {
		i = sort.Search(len(s.levels), func(i int) bool { return s.levels[i].price.GreaterThanOrEqual(*o.Price) })
	} else {
		// sell side levels are ordered descending
		i = sort.Search(len(s.levels), func(i int) bool { return s.levels[i].price.LessThanOrEqual(*o.Price) })
	}
	if i >= len(s.levels) || !s.levels[i].price.Equal(*o.Price) {
		return nil, types.ErrOrderNotFound
	}

	oidx := -1
	for idx, order := range s.levels[i].orders {
		if order.ID == o.ID {
			oidx = idx
			break
		}
	}
	if oidx == -1 {
		return nil, types.ErrOrderNotFound
	}

	order := s.levels[i].orders[oidx]
	s.levels[i].removeOrder(oidx)

	if len(s.levels[i].orders) <= 0 {
		s.levels = s.levels[:i+copy(s.levels[i:], s.levels[i+1:])]
	}
	return order, nil
}

func (s *OrderBookSide) getPriceLevelIfExists(price num.Decimal) *PriceLevel {
	i := s.levelIndex(price)
	if i < len(s.levels) && s.levels[i].price.Equal(price) {
		return s.levels[i]
	}
	return nil
}

func (s *OrderBookSide) getPriceLevel(price num.Decimal) *PriceLevel {
	i := s.levelIndex(price)
	if i < len(s.levels) && s.levels[i].price.Equal(price) {
		return s.levels[i]
	}

	// insert a new level at the sorted position; append first to make
	// sure the slice has room for the shift
	level := NewPriceLevel(price)
	s.levels = append(s.levels, nil)
	copy(s.levels[i+1:], s.levels[i:])
	s.levels[i] = level
	return level
}

func (s *OrderBookSide) levelIndex(price num.Decimal) int {
	if s.side == types.SideBuy {
		// buy side levels are ordered ascending
		return sort.Search(len(s.levels), func(i int) bool { return s.levels[i].price.GreaterThanOrEqual(price) })
	}
	// sell side levels are ordered descending
	return sort.Search(len(s.levels), func(i int) bool { return s.levels[i].price.LessThanOrEqual(price) })
}

// uncross fills the aggressive order against this side, walking levels
// from the best price while the aggressive order still crosses.
func (s *OrderBookSide) uncross(agg *types.Order) ([]*types.Trade, []*types.Order) {
	var (
		trades         []*types.Trade
		impactedOrders []*types.Order
		checkPrice     func(num.Decimal) bool
	)

	if agg.Side == types.SideSell {
		checkPrice = func(levelPrice num.Decimal) bool { return levelPrice.GreaterThanOrEqual(*agg.Price) }
	} else {
		checkPrice = func(levelPrice num.Decimal) bool { return levelPrice.LessThanOrEqual(*agg.Price) }
	}

	var (
		idx     = len(s.levels) - 1
		filled  bool
		ntrades []*types.Trade
		nimpact []*types.Order
	)

	// iterate from the end, so emptied levels can be removed by resizing
	// the slice rather than shifting it
	for !filled && idx >= 0 {
		if agg.Type == types.OrderTypeMarket || checkPrice(s.levels[idx].price) {
			filled, ntrades, nimpact = s.levels[idx].uncross(agg)
			trades = append(trades, ntrades...)
			impactedOrders = append(impactedOrders, nimpact...)
			if len(s.levels[idx].orders) <= 0 {
				idx--
			}
		} else {
			break
		}
	}

	// nil out and drop the levels that were completely consumed
	if idx < 0 || len(s.levels[idx].orders) > 0 {
		idx++
	}
	if idx < len(s.levels) {
		for i := idx; i < len(s.levels); i++ {
			s.levels[i] = nil
		}
		s.levels = s.levels[:idx]
	}

	return trades, impactedOrders
}

// totalVolume is the resting volume over every level of the side.
func (s *OrderBookSide) totalVolume() num.Decimal {
	volume := num.Zero()
	for _, level := range s.levels {
		volume = volume.Add(level.volume)
	}
	return volume
}

// costForVolume walks the side from the best price and returns the
// notional required to consume the given volume at the prices currently
// resting. Fails with ErrInsufficientLiquidity when the side cannot
// absorb the volume.
func (s *OrderBookSide) costForVolume(volume num.Decimal) (num.Decimal, error) {
	cost := num.Zero()
	remaining := volume
	for i := len(s.levels) - 1; i >= 0 && remaining.IsPositive(); i-- {
		level := s.levels[i]
		size := num.MinD(remaining, level.volume)
		cost = cost.Add(level.price.Mul(size))
		remaining = remaining.Sub(size)
	}
	if remaining.IsPositive() {
		return num.Zero(), errors.Wrapf(types.ErrInsufficientLiquidity,
			"%s volume available for requested %s", volume.Sub(remaining), volume)
	}
	return cost, nil
}

// depth aggregates the side per price level, best first. maxLevels of
// zero means every level.
func (s *OrderBookSide) depth(maxLevels uint64) []types.PriceVolume {
	out := make([]types.PriceVolume, 0, len(s.levels))
	for i := len(s.levels) - 1; i >= 0; i-- {
		if maxLevels > 0 && uint64(len(out)) >= maxLevels {
			break
		}
		level := s.levels[i]
		out = append(out, types.PriceVolume{
			Price:          level.price,
			Volume:         level.volume,
			NumberOfOrders: uint64(len(level.orders)),
		})
	}
	return out
}

func (s *OrderBookSide) getOrderCount() int64 {
	var orderCount int64
	for _, level := range s.levels {
		orderCount += int64(len(level.orders))
	}
	return orderCount
}
