// Package config loads the command line settings of streamsx.
//
// Settings are merged from config files, the environment and flags, in that
// order, so a flag always wins. Environment variables use the STREAMSX_
// prefix, e.g. STREAMSX_SERVICE_NAME sets service-name.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

const envPrefix = "STREAMSX_"

// DefaultInterpreter is looked up on PATH when --interpreter is not set.
const DefaultInterpreter = "python3"

// Settings holds every option understood by the streamsx commands.
type Settings struct {
	Configs     []string      `koanf:"config"`
	Context     string        `koanf:"context"`
	Graph       string        `koanf:"graph"`
	Deploy      string        `koanf:"deploy"`
	ServiceName string        `koanf:"service-name"`
	VCAP        string        `koanf:"vcap"`
	ToolkitRoot string        `koanf:"toolkit-root"`
	Interpreter string        `koanf:"interpreter"`
	Timeout     time.Duration `koanf:"timeout"`
	LogLevel    string        `koanf:"log-level"`
	Dev         bool          `koanf:"dev"`
	HistoryDir  string        `koanf:"history-dir"`
	Serve       string        `koanf:"serve"`
}

// NewFlagSet declares the flags for a streamsx command.
func NewFlagSet(name string) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.StringSlice("config", nil, "path to one or more config files (will be merged in order)")
	f.String("context", "", "context type to submit with, e.g. BUNDLE or REMOTE_BUILD_AND_SUBMIT")
	f.String("graph", "", "path of the JSON topology graph to submit")
	f.String("deploy", "", "path of the deployment configuration (JSON or YAML)")
	f.String("service-name", "", "Streaming Analytics service to submit to")
	f.String("vcap", "", "VCAP services as JSON text or the path of a JSON file")
	f.String("toolkit-root", "", "topology toolkit to use instead of the one next to the binary")
	f.String("interpreter", DefaultInterpreter, "interpreter to record in the descriptor, or \"self\" for this binary")
	f.Duration("timeout", 0, "give up on the submission after this long (0 waits forever)")
	f.String("log-level", zerolog.LevelInfoValue, "log level")
	f.Bool("dev", false, "human readable console logs")
	f.String("history-dir", "", "directory of the submission journal (empty disables it)")
	f.String("serve", "", "address to serve the submission journal on, e.g. :8080")
	return f
}

// Load parses args with f and merges the config files, the environment
// and the flags into Settings.
func Load(f *flag.FlagSet, args []string) (*Settings, error) {
	if err := f.Parse(args); err != nil {
		return nil, err
	}

	ko := koanf.New(".")
	configs, _ := f.GetStringSlice("config")
	for _, path := range configs {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := ko.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	}

	if err := ko.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error reading environment config: %w", err)
	}
	if err := ko.Load(posflag.Provider(f, ".", ko), nil); err != nil {
		return nil, fmt.Errorf("error reading flag config: %w", err)
	}

	s := &Settings{}
	if err := ko.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// envKey maps STREAMSX_TOOLKIT_ROOT to toolkit-root.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", "-")
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
}

// Validate checks values that cannot be checked by the flag parser.
func (s *Settings) Validate() error {
	if s.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (s *Settings) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return lvl, nil
}
