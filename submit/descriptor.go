package submit

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tarungka/streamsx/internal/utils"
	"github.com/tarungka/streamsx/topology"
)

const (
	descriptorPattern = "splpytmp*.json"
	deployKey         = "deploy"
	graphKey          = "graph"
)

// buildDescriptor combines the deployment configuration and the serialized
// graph.
func buildDescriptor(cfg Config, g topology.Graph) (map[string]any, error) {
	graph, err := g.SPLGraph()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SPL graph: %w", err)
	}
	return map[string]any{
		deployKey: map[string]any(cfg),
		graphKey:  graph,
	}, nil
}

// writeDescriptor writes d to a new temporary file in dir (the system temp
// dir when empty) and returns its path. Map keys come out sorted and the
// output is indented by two spaces.
func writeDescriptor(dir string, d map[string]any) (string, error) {
	f, err := os.CreateTemp(dir, descriptorPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create descriptor file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close descriptor file: %w", err)
	}
	return f.Name(), nil
}

// removeDescriptor deletes the descriptor if it still exists. Both the
// stderr drain and the submitter call it, in either order.
func removeDescriptor(path string) error {
	if path == "" || !utils.PathExists(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
