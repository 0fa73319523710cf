/*
Command simex boots an in-process simulated venue, seeds a BTC/USD book
through the market-maker path and runs a short scripted trading session
against it, logging the trades and the resulting ticker.

Syntax:

	simex [-env dev|prod] [-metrics-addr :2112]
*/
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gruelbox/simex/config"
	"github.com/gruelbox/simex/execution"
	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/metrics"
	"github.com/gruelbox/simex/trades"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

var (
	env         string
	metricsAddr string
)

func init() {
	flag.StringVar(&env, "env", "dev", "logging environment (dev or prod)")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "if set, serve prometheus metrics on this address")
}

const (
	marketMaker = "market-makers"
	trader      = "trader-1"
)

func main() {
	flag.Parse()

	log := logging.NewLoggerFromEnv(env)
	defer log.AtExit()

	metrics.Setup()
	if metricsAddr != "" {
		go func() {
			log.Error("metrics server stopped",
				logging.Error(http.ListenAndServe(metricsAddr, promhttp.Handler())))
		}()
	}

	cfg := config.NewDefaultConfig()
	engine := execution.NewEngine(log, cfg.Execution)
	history := trades.NewService(log, cfg.Trades, engine)

	btcusd := types.Instrument{Base: "BTC", Counter: "USD"}
	if err := seedMarket(engine, btcusd); err != nil {
		log.Error("failed to seed market", logging.Error(err))
		os.Exit(1)
	}

	if _, err := engine.Deposit(trader, "USD", num.NewDecimalFromInt64(1000)); err != nil {
		log.Error("deposit failed", logging.Error(err))
		os.Exit(1)
	}
	if _, err := engine.Deposit(trader, "BTC", num.NewDecimalFromInt64(1000)); err != nil {
		log.Error("deposit failed", logging.Error(err))
		os.Exit(1)
	}

	conf, err := engine.SubmitOrder(types.OrderSubmission{
		Instrument: btcusd,
		Party:      trader,
		Side:       types.SideSell,
		Type:       types.OrderTypeMarket,
		Size:       num.MustDecimalFromString("0.7"),
	})
	if err != nil {
		log.Error("market order failed", logging.Error(err))
		os.Exit(1)
	}
	for _, t := range conf.Trades {
		log.Info("trade",
			logging.TradeID(t.ID),
			logging.Decimal("price", t.Price),
			logging.Decimal("size", t.Size),
			logging.String("buyer", t.Buyer),
			logging.String("seller", t.Seller))
	}

	mine, err := history.TradeHistory(trader, &btcusd)
	if err != nil {
		log.Error("trade history failed", logging.Error(err))
		os.Exit(1)
	}
	log.Info("session trade history", logging.Int("trades", len(mine)))

	ticker, err := engine.Ticker(btcusd)
	if err != nil {
		log.Error("ticker failed", logging.Error(err))
		os.Exit(1)
	}
	log.Info("ticker",
		logging.Instrument(btcusd.Key()),
		logging.Decimal("best-bid", *ticker.BestBid),
		logging.Decimal("best-ask", *ticker.BestAsk),
		logging.Decimal("last", *ticker.LastTraded))
}

func seedMarket(engine *execution.Engine, instrument types.Instrument) error {
	for _, currency := range []string{instrument.Base, instrument.Counter} {
		if _, err := engine.Deposit(marketMaker, currency, num.NewDecimalFromInt64(10000)); err != nil {
			return err
		}
	}
	seed := []struct {
		side   types.Side
		price  string
		amount string
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
		price := num.MustDecimalFromString(s.price)
		if _, err := engine.SubmitOrderUnrestricted(types.OrderSubmission{
			Instrument: instrument,
			Party:      marketMaker,
			Side:       s.side,
			Type:       types.OrderTypeLimit,
			Size:       num.MustDecimalFromString(s.amount),
			Price:      &price,
		}); err != nil {
			return err
		}
	}
	return nil
}
