package submit

import (
	"context"

	"github.com/tarungka/streamsx/topology"
)

// Submit submits g with the given context type and deployment
// configuration. Any failure is logged here, with the logger passed in
// through WithLogger, and returned to the caller.
func Submit(ctx context.Context, ctxType ContextType, g topology.Graph, cfg Config, opts ...Option) error {
	o := newOptions(opts)
	log := o.log

	factory, err := NewContextFactory(g, cfg, opts...)
	if err != nil {
		log.Err(err).Msg("Error while submitting application.")
		return err
	}

	submitter, err := factory.SubmitContext(ctx, ctxType)
	if err != nil {
		log.Err(err).Msg("Error while submitting application.")
		return err
	}

	if err := submitter.Submit(ctx); err != nil {
		log.Err(err).Msg("Error while submitting application.")
		return err
	}
	return nil
}
