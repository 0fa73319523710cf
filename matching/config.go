package matching

import (
	"github.com/gruelbox/simex/config/encoding"
	"github.com/gruelbox/simex/logging"
)

// namedLogger is the identifier for package and should ideally match the
// package name; this is simply emitted as a hierarchical label, e.g.
// 'execution.matching'.
const namedLogger = "matching"

// Config represents the configuration of the matching package.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of the package specific
// configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
