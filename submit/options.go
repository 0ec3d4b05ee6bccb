package submit

import (
	"io"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Event describes a finished submission.
type Event struct {
	ContextType ContextType
	Descriptor  string
	SubmitClass string
	Args        []string
	Started     time.Time
	Finished    time.Time
	Err         error
}

// Recorder is told about every submission that reached the JVM launch step.
type Recorder interface {
	Record(ev Event) error
}

type options struct {
	log         zerolog.Logger
	stdout      io.Writer
	stderr      io.Writer
	interpreter InterpreterResolver
	toolkitRoot string
	installDir  string
	tempDir     string
	rest        *resty.Client
	recorder    Recorder
}

// Option configures a submission.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		log:         zerolog.Nop(),
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interpreter: CommandInterpreter{Name: "python3"},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for the submission.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithOutput sets where the submitter's stdout and stderr lines are echoed.
// A nil writer discards that stream.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithInterpreter overrides how the interpreter recorded in the descriptor
// is found.
func WithInterpreter(r InterpreterResolver) Option {
	return func(o *options) { o.interpreter = r }
}

// WithToolkitRoot skips toolkit discovery and uses dir.
func WithToolkitRoot(dir string) Option {
	return func(o *options) { o.toolkitRoot = dir }
}

// WithInstallDir sets the directory toolkit discovery starts from, instead
// of the directory of the running binary.
func WithInstallDir(dir string) Option {
	return func(o *options) { o.installDir = dir }
}

// WithTempDir sets where descriptor files are created.
func WithTempDir(dir string) Option {
	return func(o *options) { o.tempDir = dir }
}

// WithRestClient sets the HTTP client used for service discovery.
func WithRestClient(c *resty.Client) Option {
	return func(o *options) { o.rest = c }
}

// WithRecorder registers a recorder for finished submissions.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}
