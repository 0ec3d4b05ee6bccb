// Package topology holds the contracts the submitter needs from an
// application topology: something that can serialize itself into the SPL
// graph JSON, and the views registered on it.
package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Graph is an application topology ready for submission.
type Graph interface {
	// SPLGraph returns the graph representation placed under the
	// descriptor's "graph" key. It is opaque to the submitter.
	SPLGraph() (map[string]any, error)
	// Views returns every view registered on the topology.
	Views() []View
}

// ContextConfig is what a view needs to fetch data from the Streams REST API.
type ContextConfig struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RestAPIURL string `json:"rest_api_url"`
}

// View is a named window onto a stream whose data is fetched over REST once
// the application is running.
type View interface {
	Name() string
	SetStreamsContextConfig(cfg ContextConfig)
}

// StaticGraph is a Graph whose serialized form is already known, for example
// one produced by a separate graph builder and stored on disk.
type StaticGraph struct {
	mu    sync.RWMutex
	graph map[string]any
	views []View
}

// NewStaticGraph wraps an already serialized graph.
func NewStaticGraph(graph map[string]any, views ...View) *StaticGraph {
	return &StaticGraph{graph: graph, views: views}
}

// LoadFile reads a serialized graph from a JSON file. Views are declared in
// the optional top-level "views" array as objects with a "name" field.
func LoadFile(path string) (*StaticGraph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	// UseNumber keeps large integers intact on the way back out.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var graph map[string]any
	if err := dec.Decode(&graph); err != nil {
		return nil, fmt.Errorf("failed to decode graph file %s: %w", path, err)
	}

	g := NewStaticGraph(graph)
	if rawViews, ok := graph["views"].([]any); ok {
		for _, rv := range rawViews {
			v, ok := rv.(map[string]any)
			if !ok {
				continue
			}
			if name, ok := v["name"].(string); ok && name != "" {
				g.AddView(NewBasicView(name))
			}
		}
	}
	return g, nil
}

// SPLGraph returns the stored graph.
func (g *StaticGraph) SPLGraph() (map[string]any, error) {
	if g.graph == nil {
		return nil, fmt.Errorf("graph is empty")
	}
	return g.graph, nil
}

// AddView registers v on the graph.
func (g *StaticGraph) AddView(v View) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.views = append(g.views, v)
}

// Views returns a copy of the registered views.
func (g *StaticGraph) Views() []View {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]View, len(g.views))
	copy(out, g.views)
	return out
}
