package types

import (
	"time"

	"github.com/pkg/errors"

	"github.com/gruelbox/simex/types/num"
)

// Side of the book an order sits on.
type Side int8

const (
	// SideUnspecified is the zero value, never valid on a submission
	SideUnspecified Side = iota
	// SideBuy is a bid
	SideBuy
	// SideSell is an ask
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unspecified"
	}
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideUnspecified
	}
}

// OrderType distinguishes resting limit orders from immediate market orders.
type OrderType int8

const (
	// OrderTypeUnspecified is the zero value, never valid on a submission
	OrderTypeUnspecified OrderType = iota
	// OrderTypeLimit carries a limit price and may rest on the book
	OrderTypeLimit
	// OrderTypeMarket executes immediately against resting volume
	OrderTypeMarket
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "limit"
	case OrderTypeMarket:
		return "market"
	default:
		return "unspecified"
	}
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus int8

const (
	// OrderStatusNew is an order with no fills yet
	OrderStatusNew OrderStatus = iota
	// OrderStatusPartiallyFilled is an order with some fills and remaining size
	OrderStatusPartiallyFilled
	// OrderStatusFilled is an order with no remaining size
	OrderStatusFilled
	// OrderStatusCancelled is an order removed before it was fully filled
	OrderStatusCancelled
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusNew:
		return "new"
	case OrderStatusPartiallyFilled:
		return "partially-filled"
	case OrderStatusFilled:
		return "filled"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is the book representation of one submission. It is mutated in
// place on each fill, always under the owning market's lock.
type Order struct {
	ID         string
	Party      string
	Instrument Instrument
	Side       Side
	Type       OrderType

	// Price is the limit price; nil for market orders.
	Price *num.Decimal

	// Size is the original amount; Remaining and Filled always sum to it.
	Size      num.Decimal
	Remaining num.Decimal
	Filled    num.Decimal

	// AveragePrice is nil until the first fill, then the cumulative
	// notional divided by the cumulative filled amount.
	AveragePrice *num.Decimal

	Status OrderStatus

	// Reserved records whether funds were frozen for this order on
	// submission, so cancellation and settlement know whether a release
	// is owed. Orders placed through the unrestricted seeding path carry
	// no reservation.
	Reserved bool

	// Seq is the arrival sequence number, the time-priority tie break
	// within a price level.
	Seq       uint64
	CreatedAt time.Time

	// notional accumulates the exact traded value, so the average price
	// is a single division rather than a chain of rounded ones.
	notional num.Decimal
}

// Fill applies one trade of the given price and size to the order,
// updating cumulative amount, remaining amount, average price and status.
func (o *Order) Fill(price, size num.Decimal) {
	o.notional = o.notional.Add(price.Mul(size))
	o.Filled = o.Filled.Add(size)
	avg := o.notional.Div(o.Filled)
	o.AveragePrice = &avg
	o.Remaining = o.Remaining.Sub(size)
	if o.Remaining.IsZero() {
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
}

// IsFinished reports whether the order has left the book for good.
func (o *Order) IsFinished() bool {
	return o.Status == OrderStatusFilled || o.Status == OrderStatusCancelled
}

// Clone returns a deep copy of the order, safe to hand to callers outside
// the market lock.
func (o *Order) Clone() *Order {
	cpy := *o
	if o.Price != nil {
		p := *o.Price
		cpy.Price = &p
	}
	if o.AveragePrice != nil {
		ap := *o.AveragePrice
		cpy.AveragePrice = &ap
	}
	return &cpy
}

// OrderSubmission is the single parameter structure for order placement.
// The instrument is always present and validation happens once, here, at
// the boundary.
type OrderSubmission struct {
	Instrument Instrument
	Party      string
	Side       Side
	Type       OrderType
	Size       num.Decimal

	// Price is required for limit orders and forbidden on market orders.
	Price *num.Decimal
}

// Validate sanity-checks the submission before the market touches any state.
func (s OrderSubmission) Validate() error {
	if s.Party == "" {
		return ErrInvalidParty
	}
	if err := s.Instrument.Validate(); err != nil {
		return err
	}
	if s.Side != SideBuy && s.Side != SideSell {
		return ErrInvalidSide
	}
	if s.Type != OrderTypeLimit && s.Type != OrderTypeMarket {
		return ErrInvalidOrderType
	}
	if !s.Size.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "amount %s is not positive", s.Size)
	}
	if s.Type == OrderTypeLimit {
		if s.Price == nil {
			return errors.Wrap(ErrInvalidPrice, "limit order requires a price")
		}
		if !s.Price.IsPositive() {
			return errors.Wrapf(ErrInvalidPrice, "price %s is not positive", s.Price)
		}
	} else if s.Price != nil {
		return errors.Wrap(ErrInvalidPrice, "market order must not carry a price")
	}
	return nil
}

// IntoOrder builds the book order for the submission. The caller assigns
// identity and sequence.
func (s OrderSubmission) IntoOrder(id string, seq uint64, now time.Time) *Order {
	o := &Order{
		ID:         id,
		Party:      s.Party,
		Instrument: s.Instrument,
		Side:       s.Side,
		Type:       s.Type,
		Size:       s.Size,
		Remaining:  s.Size,
		Filled:     num.Zero(),
		Status:     OrderStatusNew,
		Seq:        seq,
		CreatedAt:  now,
	}
	if s.Price != nil {
		p := *s.Price
		o.Price = &p
	}
	return o
}

// OrderConfirmation is returned on a successful submission: the taker
// order plus any trades, with PassiveOrdersAffected[i] being the maker
// side of Trades[i].
type OrderConfirmation struct {
	Order                 *Order
	Trades                []*Trade
	PassiveOrdersAffected []*Order
}
