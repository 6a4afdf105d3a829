package main

import (
	"fmt"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a JSON logger writing to a rotated file at path, or a
// discarding logger when path is empty. The returned func closes the file.
func newLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", level)
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(h), func() { _ = w.Close() }, nil
}
