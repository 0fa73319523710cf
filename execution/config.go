package execution

import (
	"github.com/gruelbox/simex/collateral"
	"github.com/gruelbox/simex/config/encoding"
	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/matching"
)

// namedLogger is the identifier for package and should ideally match the
// package name.
const namedLogger = "execution"

// Config is the configuration of the execution package.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	Matching   matching.Config
	Collateral collateral.Config
}

// NewDefaultConfig creates an instance of the package specific
// configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:      encoding.LogLevel{Level: logging.InfoLevel},
		Matching:   matching.NewDefaultConfig(),
		Collateral: collateral.NewDefaultConfig(),
	}
}
