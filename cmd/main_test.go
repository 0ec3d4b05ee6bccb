package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarungka/streamsx/internal/config"
	"github.com/tarungka/streamsx/submit"
)

const fakeJava = `#!/bin/sh
echo "submitted $4"
echo "INFO com.ibm.streamsx.topology.internal.streams.InvokeSc getToolkitPath" >&2
exit ${FAKE_JAVA_EXIT:-0}
`

func setupJava(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "bin", "java"), []byte(fakeJava), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "bin", "python3"), []byte("#!/bin/sh\necho Python 3.11.4\n"), 0o755))
	t.Setenv("PATH", filepath.Join(home, "bin")+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("STREAMS_INSTALL", "")
	t.Setenv("JAVA_HOME", home)
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestRunContexts(t *testing.T) {
	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"contexts"}, &out, &errOut))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 7)
	assert.Contains(t, lines, "REMOTE_BUILD_AND_SUBMIT")
}

func TestRunUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "Commands:")

	errOut.Reset()
	assert.Equal(t, 2, run([]string{"launch"}, &out, &errOut))
	assert.Contains(t, errOut.String(), `unknown command "launch"`)

	assert.Equal(t, 0, run([]string{"version"}, &out, &errOut))
	assert.Contains(t, out.String(), buildString)

	errOut.Reset()
	assert.Equal(t, 0, run([]string{"submit", "--help"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "--toolkit-root")
}

func TestRunSubmitRequiresFlags(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run([]string{"submit", "--graph", "g.json"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "--context is required")

	errOut.Reset()
	assert.Equal(t, 1, run([]string{"submit", "--context", "TOOLKIT"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "--graph is required")
}

func TestRunSubmitAndHistory(t *testing.T) {
	setupJava(t)
	dir := t.TempDir()
	graph := writeFile(t, dir, "app.json", `{"name": "app", "views": [{"name": "numbers"}]}`)
	deploy := writeFile(t, dir, "deploy.yaml", "jobConfig:\n  jobName: counter\n")
	historyDir := filepath.Join(dir, "history")

	var out, errOut bytes.Buffer
	code := run([]string{
		"submit",
		"--context", "TOOLKIT",
		"--graph", graph,
		"--deploy", deploy,
		"--toolkit-root", "/opt/tk",
		"--history-dir", historyDir,
		"--log-level", "error",
	}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "submitted TOOLKIT")

	t.Setenv("FAKE_JAVA_EXIT", "4")
	out.Reset()
	code = run([]string{
		"submit", "--context", "BUILD_ARCHIVE", "--graph", graph,
		"--toolkit-root", "/opt/tk", "--history-dir", historyDir, "--log-level", "error",
	}, &out, &errOut)
	assert.Equal(t, 1, code)

	out.Reset()
	require.Equal(t, 0, run([]string{"history", "--history-dir", historyDir}, &out, &errOut))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "BUILD_ARCHIVE")
	assert.Contains(t, lines[1], "exited with status 4")
	assert.Contains(t, lines[2], "TOOLKIT")
	assert.True(t, strings.HasSuffix(lines[2], "ok"))
}

func TestRunSubmitRejectsManifestFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run([]string{"submit", "--manifest", "m.json"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "unknown flag: --manifest")
}

func TestInterpreterFor(t *testing.T) {
	assert.Equal(t, submit.CommandInterpreter{Name: "python3"}, interpreterFor(&config.Settings{}))
	assert.Equal(t, submit.CommandInterpreter{Name: "pypy3"}, interpreterFor(&config.Settings{Interpreter: "pypy3"}))
	assert.Equal(t, submit.ProcessInterpreter{}, interpreterFor(&config.Settings{Interpreter: "self"}))
}

func TestRunSubmitUnsupportedContext(t *testing.T) {
	setupJava(t)
	dir := t.TempDir()
	graph := writeFile(t, dir, "app.json", `{"name": "app"}`)

	var out, errOut bytes.Buffer
	code := run([]string{"submit", "--context", "STANDALONE", "--graph", graph, "--toolkit-root", "/opt/tk"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "STANDALONE must be submitted when a streams install is present.")
}

func TestRunHistoryRequiresDir(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run([]string{"history"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "--history-dir is required")
}
