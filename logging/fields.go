package logging

import (
	"go.uber.org/zap"

	"github.com/gruelbox/simex/types/num"
)

// String constructs a field with the given key and value.
func String(key, val string) zap.Field {
	return zap.String(key, val)
}

// Int constructs a field with the given key and value.
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Uint64 constructs a field with the given key and value.
func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// Decimal constructs a field carrying the string form of a decimal.
func Decimal(key string, val num.Decimal) zap.Field {
	return zap.String(key, val.String())
}

// Error constructs a field that carries an error.
func Error(err error) zap.Field {
	return zap.Error(err)
}

// OrderID constructs a field carrying an order id.
func OrderID(id string) zap.Field {
	return zap.String("order-id", id)
}

// TradeID constructs a field carrying a trade id.
func TradeID(id string) zap.Field {
	return zap.String("trade-id", id)
}

// Party constructs a field carrying a party id.
func Party(party string) zap.Field {
	return zap.String("party", party)
}

// Instrument constructs a field carrying an instrument key.
func Instrument(key string) zap.Field {
	return zap.String("instrument", key)
}
