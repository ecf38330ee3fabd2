// Package modkit provides module wiring and core deps
package modkit

import (
	"plannedobs/internal/platform/config"
	"plannedobs/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
}

// Default returns deps built from the root logger and the env config
func Default() Deps {
	return Deps{Log: *logger.Get(), Cfg: config.New()}
}
