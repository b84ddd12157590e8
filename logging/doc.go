// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package logging builds the process-wide slog logger from the config.

	logger, closer, err := logging.New(cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

LOG_FORMAT selects the text or JSON handler and LOG_LEVEL the minimum level.
When LOG_FILE is set, entries are written to stdout and to that file, which
lumberjack rotates at 50 MB, keeping 5 compressed backups for up to 28 days.

Everything else logs through the package-level slog functions with key/value
attributes:

	slog.Error("failed to insert bug", "error", err)
*/
package logging
