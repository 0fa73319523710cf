package types

import "github.com/pkg/errors"

var (
	// ErrInvalidParty signals an empty or otherwise unusable party id
	ErrInvalidParty = errors.New("invalid party id")
	// ErrInvalidInstrument signals a malformed instrument
	ErrInvalidInstrument = errors.New("invalid instrument")
	// ErrInvalidSide signals an unspecified order side
	ErrInvalidSide = errors.New("invalid order side")
	// ErrInvalidOrderType signals an unspecified order type
	ErrInvalidOrderType = errors.New("invalid order type")
	// ErrInvalidAmount signals a zero or negative amount
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidPrice signals a missing limit price, or a price supplied on
	// a market order
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInsufficientFunds signals that the party's available balance does
	// not cover the worst case cost of the requested operation
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientLiquidity signals that the resting volume on the
	// opposite side of the book cannot absorb a market order
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrOrderNotFound signals a lookup or cancel of an unknown, filled or
	// already cancelled order
	ErrOrderNotFound = errors.New("order not found")
	// ErrMarketNotFound signals a lookup of an unknown market
	ErrMarketNotFound = errors.New("market not found")

	// ErrInvariantViolation signals an internal consistency failure during
	// matching or settlement. It indicates a bug, is fatal for the
	// operation that hit it, and must never be swallowed.
	ErrInvariantViolation = errors.New("invariant violation")
)
