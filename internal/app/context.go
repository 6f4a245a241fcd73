package app

import (
	"github.com/hannes44/exjobb-index-compression/internal/infra/config"
	"github.com/hannes44/exjobb-index-compression/internal/infra/logger"
	"github.com/hannes44/exjobb-index-compression/internal/results"
)

// Context holds the core environment and shared resources for the
// harness. It acts as the single source of truth for application state.
type Context struct {
	Config *config.Config
	Logger *logger.Logger
	Store  *results.Store
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log *logger.Logger, store *results.Store) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
		Store:  store,
	}
}
