package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// newLogger builds the process logger. The returned closer releases the
// log file, if one was opened.
func newLogger(cli *CLI, stderr io.Writer) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cli.LogLevel, err)
	}

	w := stderr
	closer := func() error { return nil }
	if cli.LogFile != "" {
		f, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = f.Close
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cli.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closer, nil
}
