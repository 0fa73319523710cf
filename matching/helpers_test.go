package matching

import (
	"strconv"
	"testing"

	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

var btcusd = types.Instrument{Base: "BTC", Counter: "USD"}

func getTestOrderBook(t *testing.T) *OrderBook {
	t.Helper()
	return NewOrderBook(logging.NewTestLogger(), NewDefaultConfig(), btcusd)
}

var testSeq uint64

func limitOrder(party string, side types.Side, price, size string) *types.Order {
	testSeq++
	p := num.MustDecimalFromString(price)
	sz := num.MustDecimalFromString(size)
	return &types.Order{
		ID:         newTestID(),
		Party:      party,
		Instrument: btcusd,
		Side:       side,
		Type:       types.OrderTypeLimit,
		Price:      &p,
		Size:       sz,
		Remaining:  sz,
		Filled:     num.Zero(),
		Status:     types.OrderStatusNew,
		Seq:        testSeq,
	}
}

func marketOrder(party string, side types.Side, size string) *types.Order {
	testSeq++
	sz := num.MustDecimalFromString(size)
	return &types.Order{
		ID:         newTestID(),
		Party:      party,
		Instrument: btcusd,
		Side:       side,
		Type:       types.OrderTypeMarket,
		Size:       sz,
		Remaining:  sz,
		Filled:     num.Zero(),
		Status:     types.OrderStatusNew,
		Seq:        testSeq,
	}
}

var testIDCounter uint64

func newTestID() string {
	testIDCounter++
	return "order-" + strconv.FormatUint(testIDCounter, 10)
}

func assertDecimal(t *testing.T, expected string, got num.Decimal) {
	t.Helper()
	if !got.Equal(num.MustDecimalFromString(expected)) {
		t.Errorf("expected %s, got %s", expected, got)
	}
}
