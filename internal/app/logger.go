package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger shared by the server and the worker.
// LOG_FORMAT=json selects the JSON handler; anything else logs as text.
func NewLogger(cfg *Config) *slog.Logger {
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
}
