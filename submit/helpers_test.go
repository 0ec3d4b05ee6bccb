package submit

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tarungka/streamsx/topology"
)

var testInterpreter = StaticInterpreter{
	Version:      "3.11.4",
	Binary:       "/usr/bin/python3.11",
	ConfigBinary: "/usr/bin/python3.11-config",
}

// fakeJava prints what it was started with, the descriptor it was given,
// and then the compiler marker on stderr. FAKE_JAVA_EXIT sets its status.
const fakeJava = `#!/bin/sh
echo "class=$3"
echo "context=$4"
echo "classpath=$2"
cat "$5"
echo "compiling" >&2
echo "INFO ` + InvokeScMarker + ` /opt/tk" >&2
exit ${FAKE_JAVA_EXIT:-0}
`

// installJava writes the fake JVM to <home>/<rel>/java.
func installJava(t *testing.T, home string, rel ...string) {
	t.Helper()
	dir := filepath.Join(append([]string{home}, rel...)...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "java"), []byte(fakeJava), 0o755))
}

// remoteEnv makes the environment look like a machine with only a JDK.
func remoteEnv(t *testing.T) string {
	t.Helper()
	javaHome := t.TempDir()
	installJava(t, javaHome, "bin")
	t.Setenv(envStreamsInstall, "")
	t.Setenv(envJavaHome, javaHome)
	return javaHome
}

// localEnv makes the environment look like a machine with Streams installed.
func localEnv(t *testing.T) string {
	t.Helper()
	install := t.TempDir()
	installJava(t, install, "java", "jre", "bin")
	t.Setenv(envStreamsInstall, install)
	t.Setenv(envJavaHome, "")
	return install
}

func testGraph(views ...topology.View) *topology.StaticGraph {
	return topology.NewStaticGraph(map[string]any{
		"name":      "app",
		"namespace": "sample",
		"operators": []any{map[string]any{"name": "numbers", "kind": "spl.utility::Beacon"}},
	}, views...)
}

func testOptions(t *testing.T, extra ...Option) []Option {
	return append([]Option{
		WithInterpreter(testInterpreter),
		WithTempDir(t.TempDir()),
		WithToolkitRoot("/opt/tk"),
		WithOutput(nil, nil),
	}, extra...)
}

// resourcesServer serves the Streaming Analytics resources endpoint.
type resourcesServer struct {
	*httptest.Server

	mu    sync.Mutex
	calls int
}

func newResourcesServer(t *testing.T, user, password, restURL string) *resourcesServer {
	t.Helper()
	rs := &resourcesServer{}

	router := chi.NewRouter()
	router.Get("/v2/resources", func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.calls++
		rs.mu.Unlock()

		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != password {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"streams_rest_url":"` + restURL + `","streams_self":"ignored"}`))
	})

	rs.Server = httptest.NewServer(router)
	t.Cleanup(rs.Close)
	return rs
}

func (rs *resourcesServer) Calls() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.calls
}

// vcapJSON builds a VCAP services document with two streaming-analytics
// entries, the second pointing at restURL.
func vcapJSON(restURL string) string {
	return `{
	  "streaming-analytics": [
	    {"name": "other-service", "credentials": {"userid": "x", "password": "y", "rest_url": "http://127.0.0.1:1", "resources_path": "/v2/resources"}},
	    {"name": "my-service", "credentials": {"userid": "alice", "password": "s3cret", "rest_url": "` + restURL + `", "resources_path": "/v2/resources"}}
	  ]
	}`
}

type recorderFunc func(Event) error

func (f recorderFunc) Record(ev Event) error { return f(ev) }
