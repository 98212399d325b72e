// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

// Package logging is the zerolog layer every Uplift component logs
// through. It owns one process-wide logger, configured once at startup
// from application config and reachable from anywhere via the package
// level event starters:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("source", "ted").Int("count", n).Msg("Refresh complete")
//	logging.Error().Err(err).Msg("Refresh failed")
//
// Request handlers log through Ctx instead, which stamps the request's
// correlation ID onto every line:
//
//	logging.Ctx(r.Context()).Info().Str("category", cat).Msg("Check-in stored")
//
// Two habits keep the output useful. Terminate every chain with Msg or
// Send, otherwise the line is never emitted. Prefer typed fields over
// formatted strings so the JSON stays machine-queryable:
//
//	logging.Info().Str("source", s).Int("count", n).Msg("refresh done")  // yes
//	logging.Info().Msgf("refreshed %d items from %s", n, s)              // no
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the output shape of the process logger.
type Config struct {
	// Level is the minimum level that gets emitted: trace, debug, info,
	// warn, error, fatal, panic, or disabled. Empty means info.
	Level string

	// Format picks json (the production default) or console, which
	// renders human-readable lines for local development.
	Format string

	// Caller adds the file:line of the call site to each line. Off by
	// default; it costs a runtime.Caller per event.
	Caller bool

	// Output is the destination writer. Nil means os.Stderr.
	Output io.Writer
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

// The package emits valid log lines even before Init runs, so early
// startup failures (config loading, flag parsing) are still visible.
//
//nolint:gochecknoinits
func init() {
	initLogger(Config{})
}

// Init configures the process logger. Called once from main after the
// configuration is loaded; calling it again reconfigures in place.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

// initLogger applies cfg to the global logger. Callers hold mu.
func initLogger(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}

	base := zerolog.New(output).With().Timestamp()
	if cfg.Caller {
		base = base.Caller()
	}
	log = base.Logger()
}

// parseLevel maps a config string onto a zerolog level. The "warning"
// spelling is accepted alongside zerolog's own "warn"; anything
// unrecognized falls back to info rather than failing startup.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(level)
	if level == "warning" {
		return zerolog.WarnLevel
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

// Logger returns a copy of the process logger for callers that need the
// zerolog.Logger value itself, such as adapters feeding other logging
// interfaces.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger swaps the process logger wholesale. Tests use this to point
// output at a buffer.
//
//nolint:gocritic // zerolog.Logger is passed by value by design
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// With opens a child-logger builder on the process logger:
//
//	audit := logging.With().Str("component", "admin").Logger()
func With() zerolog.Context {
	mu.RLock()
	defer mu.RUnlock()
	return log.With()
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Debug()
}

// Info starts an info-level event.
func Info() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Info()
}

// Warn starts a warn-level event.
func Warn() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Warn()
}

// Error starts an error-level event.
func Error() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Error()
}

// Fatal starts a fatal-level event; the process exits once the message
// is written. Reserved for startup failures the server cannot run
// without.
func Fatal() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Fatal()
}
