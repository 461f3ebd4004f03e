package sprig

import (
	"log/slog"
	"os"
)

var logger = newDefaultLogger()

func newDefaultLogger() *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With("pkg", "sprig")
}

// SetLogger replaces the package logger. Passing nil restores the default
// stderr logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	logger = l
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return logger
}
