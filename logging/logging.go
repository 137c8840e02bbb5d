// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logging

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Formats accepted by New.
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a slog.Logger backed by a zap core writing to out, and a
// function that flushes it. FormatAuto picks console output when out is a
// terminal and JSON otherwise.
func New(level, format string, out *os.File) (*slog.Logger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var encoder zapcore.Encoder
	switch resolveFormat(format, out) {
	case FormatConsole:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	case FormatJSON:
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", format)
	}

	sink := zapcore.Lock(zapcore.AddSync(out))
	core := zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(lvl))
	handler := zapslog.NewHandler(core, zapslog.WithCaller(true))

	return slog.New(handler), sink.Sync, nil
}

func resolveFormat(format string, out *os.File) string {
	if format != FormatAuto && format != "" {
		return format
	}
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return FormatConsole
	}
	return FormatJSON
}
