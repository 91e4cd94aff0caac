package cmd

import (
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/log"
)

func Logger(w io.Writer, lvl slog.Level) log.Logger {
	return log.NewLogger(log.LogfmtHandlerWithLevel(w, lvl))
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "trace" {
		return log.LevelTrace, nil
	}
	err := lvl.UnmarshalText([]byte(s))
	return lvl, err
}
