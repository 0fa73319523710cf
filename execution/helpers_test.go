package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

var btcusd = types.Instrument{Base: "BTC", Counter: "USD"}

const (
	marketMaker = "market-makers"
	trader      = "trader-1"
)

func dec(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func getTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(logging.NewTestLogger(), NewDefaultConfig())
}

// getSeededEngine returns an engine with the canonical market-maker book
// on BTC/USD and a trader funded with 1000 of each currency.
func getSeededEngine(t *testing.T) *Engine {
	t.Helper()
	e := getTestEngine(t)

	for _, currency := range []string{"BTC", "USD"} {
		_, err := e.Deposit(marketMaker, currency, dec("10000"))
		require.NoError(t, err)
		_, err = e.Deposit(trader, currency, dec("1000"))
		require.NoError(t, err)
	}

	seed := []struct {
		side  types.Side
		price string
		size  string
	}{
		{types.SideSell, "10000", "200"},
		{types.SideSell, "100", "0.1"},
		{types.SideSell, "99", "0.05"},
		{types.SideSell, "99", "0.25"},
		{types.SideSell, "98", "0.3"},
		{types.SideBuy, "97", "0.4"},
		{types.SideBuy, "96", "0.25"},
		{types.SideBuy, "96", "0.25"},
		{types.SideBuy, "95", "0.6"},
		{types.SideBuy, "94", "0.7"},
		{types.SideBuy, "93", "0.8"},
		{types.SideBuy, "1", "1002"},
	}
	for _, s := range seed {
		price := dec(s.price)
		conf, err := e.SubmitOrderUnrestricted(types.OrderSubmission{
			Instrument: btcusd,
			Party:      marketMaker,
			Side:       s.side,
			Type:       types.OrderTypeLimit,
			Size:       dec(s.size),
			Price:      &price,
		})
		require.NoError(t, err)
		require.Empty(t, conf.Trades)
	}
	return e
}

func limitSubmission(party string, side types.Side, price, size string) types.OrderSubmission {
	p := dec(price)
	return types.OrderSubmission{
		Instrument: btcusd,
		Party:      party,
		Side:       side,
		Type:       types.OrderTypeLimit,
		Size:       dec(size),
		Price:      &p,
	}
}

func marketSubmission(party string, side types.Side, size string) types.OrderSubmission {
	return types.OrderSubmission{
		Instrument: btcusd,
		Party:      party,
		Side:       side,
		Type:       types.OrderTypeMarket,
		Size:       dec(size),
	}
}

func assertDecimal(t *testing.T, expected string, got num.Decimal) {
	t.Helper()
	if !got.Equal(dec(expected)) {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func assertBalance(t *testing.T, e *Engine, party, currency, total, frozen string) {
	t.Helper()
	b := e.Balance(party, currency)
	assert.True(t, b.Total.Equal(dec(total)), "%s %s total %s, want %s", party, currency, b.Total, total)
	assert.True(t, b.Frozen.Equal(dec(frozen)), "%s %s frozen %s, want %s", party, currency, b.Frozen, frozen)
}

func assertTicker(t *testing.T, e *Engine, bid, ask, last string) {
	t.Helper()
	ticker, err := e.Ticker(btcusd)
	require.NoError(t, err)
	require.NotNil(t, ticker.BestBid)
	require.NotNil(t, ticker.BestAsk)
	assertDecimal(t, bid, *ticker.BestBid)
	assertDecimal(t, ask, *ticker.BestAsk)
	if last == "" {
		assert.Nil(t, ticker.LastTraded)
	} else {
		require.NotNil(t, ticker.LastTraded)
		assertDecimal(t, last, *ticker.LastTraded)
	}
}
