package app

import (
	"log/slog"
	"os"

	"food-rescue-matching/internal/logx"
)

// NewLogger returns the process JSON logger on stdout.
func NewLogger() logx.Logger {
	return logx.NewJSON(os.Stdout, slog.LevelInfo, "food-rescue-matching")
}
