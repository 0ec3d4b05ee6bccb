package stream

import (
	"fmt"
)

// Kind classifies a function for the external SPL compiler. It is attached
// once when the operator is tagged and never changes.
type Kind int

const (
	// KindIgnore marks a function the compiler must skip.
	KindIgnore Kind = iota + 1
	// KindSource marks a function that produces tuples.
	KindSource
	// KindSink marks a function that consumes tuples and returns nothing.
	KindSink
	// KindFunction marks a tuple-in, tuple-out function.
	KindFunction
)

var kindNames = map[Kind]string{
	KindIgnore:   "Ignore",
	KindSource:   "Source",
	KindSink:     "Sink",
	KindFunction: "Function",
}

// Only these kinds map onto an SPL operator template.
var kindTemplates = map[Kind]string{
	KindFunction: "PythonTupleFunction",
	KindSink:     "PythonTupleSink",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Template returns the SPL operator template for the kind, if it has one.
func (k Kind) Template() (string, bool) {
	t, ok := kindTemplates[k]
	return t, ok
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown operator kind: %s", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown operator kind: %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
