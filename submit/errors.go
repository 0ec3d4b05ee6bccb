package submit

import (
	"errors"
	"fmt"
)

var (
	// ErrJavaHomeNotSet is returned when neither STREAMS_INSTALL nor
	// JAVA_HOME is available to locate a JVM.
	ErrJavaHomeNotSet = errors.New("please set the JAVA_HOME system variable")

	// ErrNoVCAPServices is returned when no VCAP services can be found in the
	// configuration or the environment.
	ErrNoVCAPServices = errors.New("VCAP_SERVICES are not defined, please set environment variable VCAP_SERVICES or configuration property: " + KeyServiceVCAP)

	// ErrNoServiceName is returned when the Streaming Analytics service name
	// is not configured.
	ErrNoServiceName = errors.New("streaming analytics service name is not defined, please set configuration property: " + KeyServiceName)
)

// UnsupportedContextError is returned when a context type has no submission
// path in the current environment.
type UnsupportedContextError struct {
	ContextType ContextType
	// Installed is true when a local Streams install was present.
	Installed bool
}

func (e *UnsupportedContextError) Error() string {
	if e.Installed {
		return fmt.Sprintf("%s is not a supported context type", e.ContextType)
	}
	return fmt.Sprintf("%s must be submitted when a streams install is present.", e.ContextType)
}

// ServiceNotFoundError is returned when the named service is missing from
// the VCAP services catalog.
type ServiceNotFoundError struct {
	Service string
}

func (e *ServiceNotFoundError) Error() string {
	return e.Service + " service was not found in the supplied VCAP"
}

// ExitError reports a Java submitter that exited with a non-zero status.
type ExitError struct {
	ContextType ContextType
	Code        int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s submission exited with status %d", e.ContextType, e.Code)
}
