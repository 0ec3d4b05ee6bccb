//go:build !unix

package submit

import "os/exec"

// setProcessGroup is a no-op here; cancellation kills the JVM only and
// pipeWaitDelay stops the reads.
func setProcessGroup(*exec.Cmd) {}
