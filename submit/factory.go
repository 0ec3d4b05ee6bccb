package submit

import (
	"context"

	"github.com/tarungka/streamsx/topology"
)

// ContextFactory picks the submitter for a context type, based on the type
// and on whether a local Streams install is present.
type ContextFactory struct {
	graph  topology.Graph
	config Config
	opts   *options
}

// NewContextFactory prepares cfg for submission of g. A VCAP services value
// given as text (JSON, or a path to a JSON file) is decoded in place before
// any submitter sees it. A nil cfg is treated as empty.
func NewContextFactory(g topology.Graph, cfg Config, opts ...Option) (*ContextFactory, error) {
	o := newOptions(opts)
	if cfg == nil {
		cfg = Config{}
	}

	if raw, ok := cfg[KeyServiceVCAP]; ok {
		if _, isText := raw.(string); isText {
			vcap, err := decodeVCAP(raw)
			if err != nil {
				o.log.Err(err).Msg("Error when decoding VCAP services")
				return nil, err
			}
			cfg[KeyServiceVCAP] = vcap
		}
	}

	return &ContextFactory{graph: g, config: cfg, opts: o}, nil
}

// Config returns the configuration submitters are built with.
func (f *ContextFactory) Config() Config { return f.config }

// SubmitContext returns a prepared submitter for ctxType.
//
// Without a local Streams install only remote builds and the packaging
// contexts (TOOLKIT, BUILD_ARCHIVE) can be handled. With an install every
// recognised context type is handed to the local Java submitter. Anything
// else is an *UnsupportedContextError.
func (f *ContextFactory) SubmitContext(ctx context.Context, ctxType ContextType) (Submitter, error) {
	_, installed := streamsInstall()

	switch {
	case ctxType == RemoteBuildAndSubmit:
		return newRemoteBuildSubmitter(ctx, ctxType, f.config, f.graph, f.opts)
	case ctxType.packagingOnly(), installed && ctxType.Known():
		return newBaseSubmitter(ctx, ctxType, f.config, f.graph, f.opts)
	}

	err := &UnsupportedContextError{ContextType: ctxType, Installed: installed}
	f.opts.log.Err(err).Msg("Unsupported context type")
	return nil, err
}
