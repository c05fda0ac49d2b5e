// Package logging builds the charm logger shared by the geneinfo binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options selects where and how verbosely to log.
type Options struct {
	Level   string // debug, info, warn, error; empty means info
	Verbose bool   // forces debug
	File    string // appended to when set
	Stderr  bool   // also write to stderr
}

// ParseLevel maps a config level name to a log.Level. Unknown names fall
// back to info and report ok=false.
func ParseLevel(s string) (level log.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	default:
		return log.InfoLevel, false
	}
}

// New returns a logger and a close func for the log file, if one was opened.
func New(opts Options) (*log.Logger, func() error, error) {
	closeFn := func() error { return nil }

	var writers []io.Writer
	if opts.Stderr {
		writers = append(writers, os.Stderr)
	}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file %s: %w", opts.File, err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "geneinfo",
	})

	level, ok := ParseLevel(opts.Level)
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	if !ok {
		logger.Warn("unknown log_level in config, defaulting to info", "provided", opts.Level)
	}
	return logger, closeFn, nil
}
