package submit

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	envVCAPServices    = "VCAP_SERVICES"
	envServiceName     = "STREAMING_ANALYTICS_SERVICE_NAME"
	streamingAnalytics = "streaming-analytics"
)

// Credentials are the Streaming Analytics service credentials taken from a
// VCAP services entry.
type Credentials struct {
	UserID        string `json:"userid"`
	Password      string `json:"password"`
	RestURL       string `json:"rest_url"`
	ResourcesPath string `json:"resources_path"`
}

// ResourcesURL is where the Streams REST endpoint is discovered.
func (c Credentials) ResourcesURL() string {
	return c.RestURL + c.ResourcesPath
}

// decodeVCAP turns the configured VCAP services into an object. The value
// may already be an object, or a string holding either the JSON text or the
// path of a file containing it. A nil value falls back to VCAP_SERVICES.
func decodeVCAP(raw any) (map[string]any, error) {
	var text string
	switch v := raw.(type) {
	case nil:
		env, ok := os.LookupEnv(envVCAPServices)
		if !ok || env == "" {
			return nil, ErrNoVCAPServices
		}
		text = env
	case map[string]any:
		return v, nil
	case Config:
		return v, nil
	case string:
		text = v
	default:
		return nil, fmt.Errorf("unknown VCAP services value of type %T", raw)
	}

	if strings.HasPrefix(text, string(os.PathSeparator)) {
		contents, err := os.ReadFile(text)
		if err != nil {
			return nil, fmt.Errorf("failed to read VCAP services file: %w", err)
		}
		text = string(contents)
	}

	var services map[string]any
	if err := json.Unmarshal([]byte(text), &services); err != nil {
		return nil, fmt.Errorf("failed to decode VCAP services: %w", err)
	}
	return services, nil
}

// serviceName returns the configured Streaming Analytics service name,
// falling back to STREAMING_ANALYTICS_SERVICE_NAME.
func serviceName(cfg Config) string {
	name, _ := cfg[KeyServiceName].(string)
	if strings.TrimSpace(name) == "" {
		name = os.Getenv(envServiceName)
	}
	return strings.TrimSpace(name)
}

// lookupCredentials finds the named streaming-analytics service in the
// VCAP services of cfg and returns its credentials.
func lookupCredentials(cfg Config) (Credentials, error) {
	vcap, err := decodeVCAP(cfg[KeyServiceVCAP])
	if err != nil {
		return Credentials{}, err
	}

	name := serviceName(cfg)
	if name == "" {
		return Credentials{}, ErrNoServiceName
	}

	services, _ := vcap[streamingAnalytics].([]any)
	for _, s := range services {
		service, ok := s.(map[string]any)
		if !ok || service["name"] != name {
			continue
		}
		return parseCredentials(name, service["credentials"])
	}
	return Credentials{}, &ServiceNotFoundError{Service: name}
}

func parseCredentials(name string, raw any) (Credentials, error) {
	// Round trip through JSON so both decoded maps and typed values work.
	b, err := json.Marshal(raw)
	if err != nil {
		return Credentials{}, fmt.Errorf("invalid credentials for service %s: %w", name, err)
	}
	var creds Credentials
	if err := json.Unmarshal(b, &creds); err != nil {
		return Credentials{}, fmt.Errorf("invalid credentials for service %s: %w", name, err)
	}

	var missing []string
	if creds.UserID == "" {
		missing = append(missing, "userid")
	}
	if creds.Password == "" {
		missing = append(missing, "password")
	}
	if creds.RestURL == "" {
		missing = append(missing, "rest_url")
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("credentials for service %s are missing %s", name, strings.Join(missing, ", "))
	}
	return creds, nil
}
