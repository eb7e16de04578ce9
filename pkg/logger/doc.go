// Package logger builds the *slog.Logger used across the tracker.
//
// New applies functional options on top of JSON/INFO defaults:
//
//   - WithEnvironment picks format and level for development, staging or
//     production and tags every record with "service" and "env".
//   - WithFormat and WithLevelName override the preset.
//   - WithAttr attaches static attributes.
//   - WithContextExtractors / WithContextValue inject attributes from context.Context.
//
// Attribute helpers (Error, RecordID, Key, Backend, Count, Filename, ...) keep
// attribute names consistent between the store, the storage backends and the CLI.
// Error returns an empty attribute for a nil error, so
//
//	log.Error("save failed", logger.Error(err), logger.Key(key))
//
// needs no nil check.
//
// Nop returns a logger that discards everything; library components fall back to it
// when no logger is configured.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "subtracker"),
//	    logger.WithLevelName(cfg.LogLevel),
//	)
//	logger.SetAsDefault(log)
package logger
