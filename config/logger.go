package config

import (
	"lager_server/structs"

	"github.com/MonkyMars/gecho"
)

// NewLogger builds a logger at the configured level. Middleware loggers skip caller info.
func NewLogger(cfg *structs.Config, showCaller bool) *gecho.Logger {
	level := gecho.ParseLogLevel(GetLogLevel(cfg))
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(level)))
}
