package application

import (
	"log/slog"
	"os"
)

// ResolveLogger returns the provided logger or a JSON logger on stderr.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}
