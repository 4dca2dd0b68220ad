// Package logging builds the structured logger shared by the commands.
package logging

import (
	"github.com/retroenv/retrogolib/log"
)

// New creates a logger at debug level when debug is set, error level when
// quiet is set and info level otherwise.
func New(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
