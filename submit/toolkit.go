package submit

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	toolkitName       = "com.ibm.streamsx.topology"
	bundledToolkitDir = ".toolkit"
	topologyJar       = "com.ibm.streamsx.topology.jar"

	// In the toolkit layout the binary lives in <toolkit>/opt/go/bin.
	toolkitLayoutHops = 3
)

// ResolveToolkitRoot finds the topology toolkit relative to installDir, the
// directory holding the streamsx binary.
//
// A distribution package keeps the toolkit next to its bin directory, as
// <pkg>/.toolkit/com.ibm.streamsx.topology, and that is preferred. Otherwise
// the binary is assumed to be inside the toolkit itself.
func ResolveToolkitRoot(installDir string) string {
	installDir = filepath.Clean(installDir)

	bundled := filepath.Join(filepath.Dir(installDir), bundledToolkitDir, toolkitName)
	if info, err := os.Stat(bundled); err == nil && info.IsDir() {
		return bundled
	}

	root := installDir
	for i := 0; i < toolkitLayoutHops; i++ {
		root = filepath.Dir(root)
	}
	return root
}

// executableDir returns the directory of the running binary with symlinks
// resolved.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate running executable: %w", err)
	}
	return filepath.Dir(realPath(exe)), nil
}
