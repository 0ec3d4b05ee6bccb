// Package submit hands a topology over to the IBM Streams Java submitter.
//
// A submission serializes the deployment configuration and the topology
// graph into a JSON descriptor, locates the topology toolkit, and runs the
// Java context submitter against that descriptor. Which submitter is used,
// and whether credentials have to be resolved first, depends on the context
// type and on whether a local Streams install is present.
package submit

// ContextType selects how the Java side builds and deploys the application.
// The string values are read by the Java submitter and must not change.
type ContextType string

const (
	// Distributed submits the bundle to a Streams instance.
	Distributed ContextType = "DISTRIBUTED"
	// Standalone runs the application as a standalone process.
	Standalone ContextType = "STANDALONE"
	// Bundle produces an application bundle (.sab).
	Bundle ContextType = "BUNDLE"
	// Jupyter runs standalone and streams the output back.
	Jupyter ContextType = "JUPYTER"
	// RemoteBuildAndSubmit builds and submits through a Streaming Analytics service.
	RemoteBuildAndSubmit ContextType = "REMOTE_BUILD_AND_SUBMIT"
	// Toolkit exports the application as an SPL toolkit.
	Toolkit ContextType = "TOOLKIT"
	// BuildArchive produces an archive suitable for a remote build.
	BuildArchive ContextType = "BUILD_ARCHIVE"
)

var knownContexts = []ContextType{
	Distributed,
	Standalone,
	Bundle,
	Jupyter,
	RemoteBuildAndSubmit,
	Toolkit,
	BuildArchive,
}

// ContextTypes lists every recognised context type.
func ContextTypes() []ContextType {
	out := make([]ContextType, len(knownContexts))
	copy(out, knownContexts)
	return out
}

// Known reports whether c is a recognised context type. Matching is
// case-sensitive.
func (c ContextType) Known() bool {
	for _, k := range knownContexts {
		if k == c {
			return true
		}
	}
	return false
}

// packagingOnly reports whether c only packages the application, which is
// possible without a local Streams install.
func (c ContextType) packagingOnly() bool {
	return c == Toolkit || c == BuildArchive
}

func (c ContextType) String() string { return string(c) }

// Config is the deployment configuration placed under the descriptor's
// "deploy" key. It is modified in place while a submission is prepared.
type Config map[string]any

// Well known deployment configuration keys.
const (
	KeyServiceVCAP   = "topology.service.vcap"
	KeyServiceName   = "topology.service.name"
	KeyPythonVersion = "pythonversion"
)
