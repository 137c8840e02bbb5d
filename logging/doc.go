// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package logging builds the process logger.

Call sites use log/slog; New puts a zap core behind it:

	logger, sync, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}
	defer sync()
	slog.SetDefault(logger)

Output is JSON with ISO 8601 timestamps, or colored console lines when
stdout is a terminal or the format is "console".
*/
package logging
