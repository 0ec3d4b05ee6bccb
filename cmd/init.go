package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tarungka/streamsx/internal/config"
	"github.com/tarungka/streamsx/internal/history"
	"github.com/tarungka/streamsx/internal/logger"
	"github.com/tarungka/streamsx/submit"
)

// initSettings parses the flags of one subcommand into settings and builds
// the logger they describe.
func initSettings(name string, args []string, stderr io.Writer) (*config.Settings, zerolog.Logger, error) {
	f := config.NewFlagSet(name)
	f.SetOutput(stderr)
	f.Usage = func() {
		fmt.Fprintf(stderr, "Usage of %s %s:\n%s", appName, name, f.FlagUsages())
	}

	s, err := config.Load(f, args)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log, err := logger.New(appName, logger.Options{
		Level:       s.LogLevel,
		Development: s.Dev,
		Out:         stderr,
	})
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log.Trace().Strs("config", s.Configs).Str("log_level", s.LogLevel).Msg("Loaded settings")
	return s, log, nil
}

// signalContext is cancelled on SIGINT or SIGTERM, and after timeout when
// it is positive.
func signalContext(s *config.Settings) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if s.Timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func openHistory(s *config.Settings, log zerolog.Logger) (*history.Store, error) {
	if s.HistoryDir == "" {
		return nil, nil
	}
	return history.Open(s.HistoryDir, logger.Component(log, "history"))
}

// interpreterFor maps --interpreter to a resolver. "self" records this
// binary instead of a Python interpreter.
func interpreterFor(s *config.Settings) submit.InterpreterResolver {
	switch s.Interpreter {
	case "self":
		return submit.ProcessInterpreter{}
	case "":
		return submit.CommandInterpreter{Name: config.DefaultInterpreter}
	default:
		return submit.CommandInterpreter{Name: s.Interpreter}
	}
}
