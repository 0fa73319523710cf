package trades

import (
	"github.com/gruelbox/simex/config/encoding"
	"github.com/gruelbox/simex/logging"
)

// namedLogger is the identifier for package and should ideally match the
// package name.
const namedLogger = "trades"

// Config represents the configuration of the trades service.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// PageSizeDefault sets the default page size
	PageSizeDefault uint64

	// PageSizeMaximum sets the maximum page size
	PageSizeMaximum uint64
}

// NewDefaultConfig creates an instance of the package specific
// configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		PageSizeDefault: 200,
		PageSizeMaximum: 200,
	}
}
