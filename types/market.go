package types

import "github.com/gruelbox/simex/types/num"

// PriceVolume is one aggregated price level in a depth snapshot.
type PriceVolume struct {
	Price          num.Decimal
	Volume         num.Decimal
	NumberOfOrders uint64
}

// MarketDepth is an aggregated snapshot of both sides of a book: bids
// price-descending, asks price-ascending.
type MarketDepth struct {
	Instrument Instrument
	Buy        []PriceVolume
	Sell       []PriceVolume
}

// Ticker is the synchronous market data snapshot. Fields are nil when the
// book side is empty, or when no trade has happened yet.
type Ticker struct {
	Instrument Instrument
	BestBid    *num.Decimal
	BestAsk    *num.Decimal
	LastTraded *num.Decimal
}
