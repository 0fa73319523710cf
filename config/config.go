package config

import (
	"github.com/gruelbox/simex/execution"
	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/trades"
)

// Config ties together all other application configuration types.
type Config struct {
	Execution execution.Config `group:"Execution" namespace:"execution"`
	Trades    trades.Config    `group:"Trades" namespace:"trades"`
	Logging   logging.Config   `group:"Logging" namespace:"logging"`
}

// NewDefaultConfig returns the whole application configuration with every
// package at its defaults.
func NewDefaultConfig() Config {
	return Config{
		Execution: execution.NewDefaultConfig(),
		Trades:    trades.NewDefaultConfig(),
		Logging:   logging.NewDefaultConfig(),
	}
}
