package submit

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Interpreter identifies the runtime the external compiler must target.
type Interpreter struct {
	Version string
	// Binary is the fully resolved path of the interpreter binary.
	Binary string
	// ConfigBinary is the companion "<binary>-config" path.
	ConfigBinary string
}

// InterpreterResolver finds the interpreter recorded in the descriptor.
type InterpreterResolver interface {
	Resolve(ctx context.Context) (Interpreter, error)
}

// ProcessInterpreter resolves to the running executable and the Go runtime
// version. Submitters that read pythonversion expect a Python binary, so
// only pick it when the compiler targets this program.
type ProcessInterpreter struct{}

func (ProcessInterpreter) Resolve(_ context.Context) (Interpreter, error) {
	exe, err := os.Executable()
	if err != nil {
		return Interpreter{}, fmt.Errorf("failed to locate running executable: %w", err)
	}
	return newInterpreter(exe, runtime.Version()), nil
}

// CommandInterpreter resolves a named interpreter from PATH and asks it for
// its version with --version, e.g. "python3" printing "Python 3.11.4".
// The default is python3.
type CommandInterpreter struct {
	Name string
}

func (c CommandInterpreter) Resolve(ctx context.Context) (Interpreter, error) {
	bin, err := exec.LookPath(c.Name)
	if err != nil {
		return Interpreter{}, fmt.Errorf("failed to find interpreter %s: %w", c.Name, err)
	}

	out, err := exec.CommandContext(ctx, bin, "--version").CombinedOutput()
	if err != nil {
		return Interpreter{}, fmt.Errorf("failed to query version of %s: %w", bin, err)
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return Interpreter{}, fmt.Errorf("interpreter %s printed no version", bin)
	}
	return newInterpreter(bin, fields[len(fields)-1]), nil
}

// StaticInterpreter returns a fixed interpreter.
type StaticInterpreter Interpreter

func (s StaticInterpreter) Resolve(_ context.Context) (Interpreter, error) {
	return Interpreter(s), nil
}

// newInterpreter resolves bin the same way for every resolver: the real path
// of the binary, and the -config companion next to the unresolved binary.
func newInterpreter(bin, version string) Interpreter {
	resolved := realPath(bin)
	config := realPath(filepath.Join(filepath.Dir(bin), filepath.Base(resolved)+"-config"))
	return Interpreter{
		Version:      version,
		Binary:       resolved,
		ConfigBinary: config,
	}
}

// realPath resolves symlinks where it can. Paths that do not exist, like a
// missing -config companion, are only made absolute.
func realPath(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// inject records the interpreter in cfg under KeyPythonVersion.
func (i Interpreter) inject(cfg Config) {
	cfg[KeyPythonVersion] = map[string]any{
		"version": i.Version,
		"binaries": []any{
			map[string]any{
				"python":       i.Binary,
				"pythonconfig": i.ConfigBinary,
			},
		},
	}
}
