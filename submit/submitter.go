package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tarungka/streamsx/topology"
)

// Submitter performs one prepared submission.
type Submitter interface {
	// Submit runs the Java submitter and blocks until it exits.
	Submit(ctx context.Context) error
	// ContextType is the context the submission was prepared for.
	ContextType() ContextType
	// Descriptor is the path of the JSON descriptor file.
	Descriptor() string
	// Close removes the descriptor of a submission that will not be run.
	Close() error
}

// BaseSubmitter handles the steps common to every context type.
type BaseSubmitter struct {
	ctxType    ContextType
	config     Config
	graph      topology.Graph
	opts       *options
	log        zerolog.Logger
	descriptor string
}

// NewBaseSubmitter prepares a submission: the interpreter is recorded in
// cfg, and the descriptor file is written.
func NewBaseSubmitter(ctx context.Context, ctxType ContextType, cfg Config, g topology.Graph, opts ...Option) (*BaseSubmitter, error) {
	return newBaseSubmitter(ctx, ctxType, cfg, g, newOptions(opts))
}

func newBaseSubmitter(ctx context.Context, ctxType ContextType, cfg Config, g topology.Graph, o *options) (*BaseSubmitter, error) {
	if cfg == nil {
		cfg = Config{}
	}
	s := &BaseSubmitter{
		ctxType: ctxType,
		config:  cfg,
		graph:   g,
		opts:    o,
		log:     o.log.With().Str("context", string(ctxType)).Logger(),
	}

	interp, err := o.interpreter.Resolve(ctx)
	if err != nil {
		s.log.Err(err).Msg("Error when resolving the interpreter")
		return nil, err
	}
	interp.inject(s.config)

	descriptor, err := buildDescriptor(s.config, g)
	if err != nil {
		s.log.Err(err).Msg("Error generating SPL and creating JSON file.")
		return nil, err
	}
	s.descriptor, err = writeDescriptor(o.tempDir, descriptor)
	if err != nil {
		s.log.Err(err).Msg("Error generating SPL and creating JSON file.")
		return nil, err
	}
	s.log.Debug().Str("descriptor", s.descriptor).Msg("Wrote descriptor file")
	return s, nil
}

func (s *BaseSubmitter) ContextType() ContextType { return s.ctxType }

func (s *BaseSubmitter) Descriptor() string { return s.descriptor }

// Config returns the deployment configuration, including injected fields.
func (s *BaseSubmitter) Config() Config { return s.config }

func (s *BaseSubmitter) Close() error {
	return removeDescriptor(s.descriptor)
}

// ToolkitRoot returns the toolkit the submission will use.
func (s *BaseSubmitter) ToolkitRoot() (string, error) {
	if s.opts.toolkitRoot != "" {
		return s.opts.toolkitRoot, nil
	}
	dir := s.opts.installDir
	if dir == "" {
		var err error
		if dir, err = executableDir(); err != nil {
			return "", err
		}
	}
	return ResolveToolkitRoot(dir), nil
}

// Submit launches the Java submitter with the descriptor and waits for it.
// The descriptor is gone when Submit returns.
func (s *BaseSubmitter) Submit(ctx context.Context) (err error) {
	defer func() {
		if rmErr := s.Close(); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("descriptor", s.descriptor).Msg("Failed to delete descriptor file")
		}
	}()

	tkRoot, err := s.ToolkitRoot()
	if err != nil {
		s.log.Err(err).Msg("Error when resolving the toolkit root")
		return err
	}
	plan, err := planLaunch(tkRoot)
	if err != nil {
		s.log.Err(err).Msg("Error when selecting the java submitter")
		return err
	}
	s.log.Info().Str("toolkit", tkRoot).Str("class", plan.SubmitClass).Msg("Submitting application")

	ev := Event{
		ContextType: s.ctxType,
		Descriptor:  s.descriptor,
		SubmitClass: plan.SubmitClass,
		Args:        append([]string{plan.Java}, plan.Args(s.ctxType, s.descriptor)...),
		Started:     time.Now(),
	}
	defer func() {
		ev.Finished = time.Now()
		ev.Err = err
		s.record(ev)
	}()

	p := &process{
		log:        s.log,
		plan:       plan,
		ctxType:    s.ctxType,
		descriptor: s.descriptor,
		stdout:     s.opts.stdout,
		stderr:     s.opts.stderr,
	}
	if err := p.run(ctx); err != nil {
		return fmt.Errorf("submission of %s failed: %w", s.ctxType, err)
	}
	s.log.Info().Msg("Submission finished")
	return nil
}

func (s *BaseSubmitter) record(ev Event) {
	if s.opts.recorder == nil {
		return
	}
	if err := s.opts.recorder.Record(ev); err != nil {
		s.log.Warn().Err(err).Msg("Failed to record submission")
	}
}
