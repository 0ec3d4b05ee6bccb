package submit

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/tarungka/streamsx/topology"
)

// resourcesResponse is the body returned by the service's resources URL.
type resourcesResponse struct {
	StreamsRestURL string `json:"streams_rest_url"`
}

// RemoteBuildSubmitter submits to a Streaming Analytics service, which
// builds and runs the application remotely. Before submitting it resolves
// the service credentials and the Streams REST endpoint, and hands both to
// every view of the topology.
type RemoteBuildSubmitter struct {
	*BaseSubmitter

	credentials Credentials
	restAPIURL  string
}

func newRemoteBuildSubmitter(ctx context.Context, ctxType ContextType, cfg Config, g topology.Graph, o *options) (*RemoteBuildSubmitter, error) {
	base, err := newBaseSubmitter(ctx, ctxType, cfg, g, o)
	if err != nil {
		return nil, err
	}

	r := &RemoteBuildSubmitter{BaseSubmitter: base}
	if err := r.resolve(ctx); err != nil {
		base.Close()
		return nil, err
	}
	return r, nil
}

func (r *RemoteBuildSubmitter) resolve(ctx context.Context) error {
	creds, err := lookupCredentials(r.config)
	if err != nil {
		r.log.Err(err).Msg("Error when resolving service credentials")
		return err
	}
	r.credentials = creds

	client := r.opts.rest
	if client == nil {
		client = resty.New()
	}

	url := creds.ResourcesURL()
	resp, err := client.R().
		SetContext(ctx).
		SetBasicAuth(creds.UserID, creds.Password).
		SetHeader("Accept", "application/json").
		SetResult(&resourcesResponse{}).
		Get(url)
	if err != nil {
		r.log.Err(err).Str("url", url).Msg("Error while querying url")
		return fmt.Errorf("failed to query %s: %w", url, err)
	}
	if resp.IsError() {
		err := fmt.Errorf("query of %s returned %s", url, resp.Status())
		r.log.Err(err).Str("url", url).Msg("Error while querying url")
		return err
	}

	result, _ := resp.Result().(*resourcesResponse)
	if result == nil || result.StreamsRestURL == "" {
		err := fmt.Errorf("response from %s has no streams_rest_url", url)
		r.log.Err(err).Msg("Error while querying url")
		return err
	}
	r.restAPIURL = result.StreamsRestURL

	viewCfg := topology.ContextConfig{
		Username:   creds.UserID,
		Password:   creds.Password,
		RestAPIURL: r.restAPIURL,
	}
	for _, v := range r.graph.Views() {
		v.SetStreamsContextConfig(viewCfg)
	}
	r.log.Debug().Str("rest_api_url", r.restAPIURL).Int("views", len(r.graph.Views())).Msg("Resolved Streams REST endpoint")
	return nil
}

func (r *RemoteBuildSubmitter) Username() string { return r.credentials.UserID }
func (r *RemoteBuildSubmitter) Password() string { return r.credentials.Password }
func (r *RemoteBuildSubmitter) RestAPIURL() string { return r.restAPIURL }
