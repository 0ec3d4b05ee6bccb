package stream

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

// ErrSinkReturnedValue is returned when a function tagged as a sink returns
// something other than nil.
var ErrSinkReturnedValue = errors.New("sink function must not return any value")

// Func is the shape of a user function that can be tagged as an operator.
type Func func(args ...any) (any, error)

// Operator is a user function together with its classification and the
// source file it was defined in. Calling it behaves exactly like calling the
// function, except that sinks are checked for a nil return.
type Operator struct {
	kind Kind
	fn   Func
	name string
	file string
	doc  string
}

// Option customises an Operator at tag time.
type Option func(*Operator)

// WithName overrides the name resolved from the function symbol.
func WithName(name string) Option {
	return func(o *Operator) { o.name = name }
}

// WithDoc attaches a description to the operator.
func WithDoc(doc string) Option {
	return func(o *Operator) { o.doc = doc }
}

// Tag wraps fn with the given kind.
func Tag(kind Kind, fn Func, opts ...Option) (*Operator, error) {
	if fn == nil {
		return nil, fmt.Errorf("cannot tag a nil function")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown operator kind: %d", int(kind))
	}

	o := &Operator{kind: kind, fn: fn}
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		o.name = f.Name()
		o.file, _ = f.FileLine(f.Entry())
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// MustTag is like Tag but panics on error. Intended for package-level
// declarations.
func MustTag(kind Kind, fn Func, opts ...Option) *Operator {
	o, err := Tag(kind, fn, opts...)
	if err != nil {
		panic(err)
	}
	return o
}

// Ignore tags fn so the compiler skips it.
func Ignore(fn Func, opts ...Option) *Operator { return MustTag(KindIgnore, fn, opts...) }

// Source tags fn as a tuple source.
func Source(fn Func, opts ...Option) *Operator { return MustTag(KindSource, fn, opts...) }

// Sink tags fn as a sink; its return value must be nil.
func Sink(fn Func, opts ...Option) *Operator { return MustTag(KindSink, fn, opts...) }

// Function tags fn as a tuple function.
func Function(fn Func, opts ...Option) *Operator { return MustTag(KindFunction, fn, opts...) }

// Call invokes the wrapped function with args and returns its result.
func (o *Operator) Call(args ...any) (any, error) {
	ret, err := o.fn(args...)
	if err != nil {
		return ret, err
	}
	if o.kind == KindSink && ret != nil {
		return nil, fmt.Errorf("%s: %w, got %v", o.name, ErrSinkReturnedValue, ret)
	}
	return ret, nil
}

func (o *Operator) Kind() Kind { return o.kind }
func (o *Operator) Name() string { return o.name }
func (o *Operator) File() string { return o.file }
func (o *Operator) Doc() string { return o.doc }
func (o *Operator) Unwrap() Func { return o.fn }
func (o *Operator) String() string { return fmt.Sprintf("%s(%s)", o.kind, o.name) }

// Template returns the SPL template for the operator's kind, or "".
func (o *Operator) Template() string {
	t, _ := o.kind.Template()
	return t
}
