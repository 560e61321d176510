package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production deployments set
// LOG_FORMAT=json for the log pipeline; anything else gets a readable
// text handler. Every record carries the service name so the ledger's
// lines are filterable in shared aggregation.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "firmbooks"))
}
