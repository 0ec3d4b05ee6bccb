package submit

import (
	"os"
	"path/filepath"
)

const (
	envStreamsInstall = "STREAMS_INSTALL"
	envJavaHome       = "JAVA_HOME"

	remoteSubmitClass = "com.ibm.streamsx.topology.context.remote.RemoteContextSubmit"
	localSubmitClass  = "com.ibm.streamsx.topology.context.StreamsContextSubmit"
	samplesJar        = "com.ibm.streams.operator.samples.jar"

	// InvokeScMarker appears on the submitter's stderr once the SPL compiler
	// has read the descriptor, after which the file is no longer needed.
	InvokeScMarker = "com.ibm.streamsx.topology.internal.streams.InvokeSc getToolkitPath"
)

// LaunchPlan is the JVM invocation for one submission.
type LaunchPlan struct {
	Java        string
	Classpath   string
	SubmitClass string
}

// Args returns the JVM arguments for the context type and descriptor.
func (p LaunchPlan) Args(ctxType ContextType, descriptor string) []string {
	return []string{"-classpath", p.Classpath, p.SubmitClass, string(ctxType), descriptor}
}

// streamsInstall returns the local Streams install, if any.
func streamsInstall() (string, bool) {
	dir, ok := os.LookupEnv(envStreamsInstall)
	if !ok || dir == "" {
		return "", false
	}
	return dir, true
}

// planLaunch picks the JVM, classpath and submitter class. Without a local
// Streams install the JVM comes from JAVA_HOME and the remote submitter is
// used; with one, its bundled JRE and the local submitter are used.
func planLaunch(toolkitRoot string) (LaunchPlan, error) {
	cp := filepath.Join(toolkitRoot, "lib", topologyJar)

	install, ok := streamsInstall()
	if !ok {
		javaHome, ok := os.LookupEnv(envJavaHome)
		if !ok || javaHome == "" {
			return LaunchPlan{}, ErrJavaHomeNotSet
		}
		return LaunchPlan{
			Java:        filepath.Join(javaHome, "bin", "java"),
			Classpath:   cp,
			SubmitClass: remoteSubmitClass,
		}, nil
	}

	return LaunchPlan{
		Java:        filepath.Join(install, "java", "jre", "bin", "java"),
		Classpath:   cp + string(os.PathListSeparator) + filepath.Join(install, "lib", samplesJar),
		SubmitClass: localSubmitClass,
	}, nil
}
