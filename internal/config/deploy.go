package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/tarungka/streamsx/submit"
)

// LoadDeploy reads a deployment configuration file. YAML and JSON are both
// accepted. Keys are kept as written, so dotted names such as
// topology.service.vcap stay single keys, and integers stay integers.
func LoadDeploy(path string) (submit.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deploy config: %w", err)
	}
	return ParseDeploy(raw)
}

// ParseDeploy decodes a YAML or JSON deployment configuration.
func ParseDeploy(raw []byte) (submit.Config, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return submit.Config{}, nil
	}
	js, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deploy config: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var cfg submit.Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("deploy config must be a mapping: %w", err)
	}
	if cfg == nil {
		cfg = submit.Config{}
	}
	return cfg, nil
}

// DeployConfig loads the deploy file, if any, and applies the service
// settings on top of it.
func (s *Settings) DeployConfig() (submit.Config, error) {
	cfg := submit.Config{}
	if s.Deploy != "" {
		var err error
		if cfg, err = LoadDeploy(s.Deploy); err != nil {
			return nil, err
		}
	}
	if s.ServiceName != "" {
		cfg[submit.KeyServiceName] = s.ServiceName
	}
	if s.VCAP != "" {
		cfg[submit.KeyServiceVCAP] = s.VCAP
	}
	return cfg, nil
}
