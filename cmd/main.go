package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/tarungka/streamsx/internal/history"
	"github.com/tarungka/streamsx/internal/logger"
	"github.com/tarungka/streamsx/server"
	"github.com/tarungka/streamsx/submit"
	"github.com/tarungka/streamsx/topology"
)

const appName = "streamsx"

var buildString = "unknown"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage: %s <command> [flags]

Commands:
  submit     submit a topology graph with a context type
  history    list or serve journaled submissions
  contexts   print the recognised context types
  version    print the build version
`, appName)
}

// run executes one subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "submit":
		err = runSubmit(rest, stdout, stderr)
	case "history":
		err = runHistory(rest, stdout, stderr)
	case "contexts":
		for _, ct := range submit.ContextTypes() {
			fmt.Fprintln(stdout, ct)
		}
	case "version", "--version":
		fmt.Fprintln(stdout, buildString)
	case "help", "-h", "--help":
		usage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	default:
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 1
	}
}

func runSubmit(args []string, stdout, stderr io.Writer) error {
	s, log, err := initSettings("submit", args, stderr)
	if err != nil {
		return err
	}
	if s.Context == "" {
		return errors.New("--context is required")
	}
	if s.Graph == "" {
		return errors.New("--graph is required")
	}
	log.Info().Str("build", buildString).Str("context", s.Context).Str("graph", s.Graph).Msg("Starting the submission")

	g, err := topology.LoadFile(s.Graph)
	if err != nil {
		log.Err(err).Msg("Error when reading the graph")
		return err
	}
	cfg, err := s.DeployConfig()
	if err != nil {
		log.Err(err).Msg("Error when reading the deploy config")
		return err
	}

	opts := []submit.Option{
		submit.WithLogger(logger.Component(log, "submit")),
		submit.WithOutput(stdout, stderr),
		submit.WithInterpreter(interpreterFor(s)),
	}
	if s.ToolkitRoot != "" {
		opts = append(opts, submit.WithToolkitRoot(s.ToolkitRoot))
	}

	store, err := openHistory(s, log)
	if err != nil {
		log.Err(err).Msg("Error when opening the submission history")
		return err
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, submit.WithRecorder(store))
	}

	ctx, cancel := signalContext(s)
	defer cancel()

	return submit.Submit(ctx, submit.ContextType(s.Context), g, cfg, opts...)
}

func runHistory(args []string, stdout, stderr io.Writer) error {
	s, log, err := initSettings("history", args, stderr)
	if err != nil {
		return err
	}
	if s.HistoryDir == "" {
		return errors.New("--history-dir is required")
	}

	store, err := openHistory(s, log)
	if err != nil {
		log.Err(err).Msg("Error when opening the submission history")
		return err
	}
	defer store.Close()

	if s.Serve != "" {
		ctx, cancel := signalContext(s)
		defer cancel()
		return server.Run(ctx, s.Serve, server.Router(store, logger.Component(log, "server")), log)
	}

	records, err := store.List(0)
	if err != nil {
		return err
	}
	return printRecords(stdout, records)
}

func printRecords(w io.Writer, records []history.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCONTEXT\tSTARTED\tDURATION\tRESULT")
	for _, r := range records {
		result := "ok"
		if r.Failed() {
			result = r.Error
		}
		started := time.Unix(0, r.Started).UTC().Format(time.RFC3339)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.ContextType, started, r.Duration().Round(time.Millisecond), result)
	}
	return tw.Flush()
}
