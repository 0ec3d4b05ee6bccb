package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how a logger is built. The zero value logs JSON at info
// level to stderr.
type Options struct {
	Level       string // trace, debug, info, warn, error; empty means info
	Development bool   // human-readable console output
	Out         io.Writer
	LogFile     *os.File // optional second destination
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// New builds a logger for a single component. Nothing here touches the
// package-level zerolog state, so repeated submissions with different levels
// do not interfere with each other.
func New(serviceName string, opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lvl
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	if opts.Development {
		// Set up zerolog for development mode (human-readable logs)
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339,
			FormatLevel: func(i any) string {
				return strings.ToUpper(fmt.Sprintf("[%5s]", i))
			},
			FormatMessage: func(i any) string {
				return fmt.Sprintf("| %s |", i)
			},
			FormatCaller: func(i any) string {
				return filepath.Base(fmt.Sprintf("%s", i))
			},
			PartsExclude: []string{
				zerolog.TimestampFieldName,
			}}
	}

	if opts.LogFile != nil {
		out = zerolog.MultiLevelWriter(out, opts.LogFile)
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp().Str("service", serviceName)
	if opts.Development {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}

// Component derives a child logger tagged with a component name.
func Component(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("component", name).Logger()
}
