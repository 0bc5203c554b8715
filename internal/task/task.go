// Package task defines runnable task functions and the registry the CLI
// resolves them from.
//
// A task wraps a function whose parameters are declared as a single struct.
// Construction inspects the function eagerly, so unsupported parameter
// types or a default on a config parameter fail before any input is read.
package task

import (
	"fmt"
	"reflect"

	"github.com/taskworks/jobrun/internal/param"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Task is a named function runnable from the command line.
type Task struct {
	Name  string
	Usage string

	fn      reflect.Value
	sig     *param.Signature
	hasCode bool // function returns (int, error)
}

// New creates a task from a function. Accepted forms:
//
//	func(P) (int, error)
//	func(P) error
//	func() (int, error)
//	func() error
//
// where P is a parameter struct (see the param package). The int result is
// used as the process exit code.
func New(name, usage string, fn any) (*Task, error) {
	if name == "" {
		return nil, fmt.Errorf("task name is required")
	}
	if fn == nil {
		return nil, fmt.Errorf("task %q: function is required", name)
	}

	ft := reflect.TypeOf(fn)
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("task %q: body must be a function, got %s", name, ft)
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("task %q: variadic functions are not supported", name)
	}

	var structType reflect.Type
	switch ft.NumIn() {
	case 0:
	case 1:
		if ft.In(0).Kind() != reflect.Struct {
			return nil, fmt.Errorf("task %q: parameters must be declared as a struct, got %s", name, ft.In(0))
		}
		structType = ft.In(0)
	default:
		return nil, fmt.Errorf("task %q: functions take at most one parameter struct", name)
	}

	hasCode := false
	switch ft.NumOut() {
	case 1:
		if ft.Out(0) != errType {
			return nil, fmt.Errorf("task %q: single result must be error, got %s", name, ft.Out(0))
		}
	case 2:
		if ft.Out(0).Kind() != reflect.Int || ft.Out(1) != errType {
			return nil, fmt.Errorf("task %q: results must be (int, error), got (%s, %s)", name, ft.Out(0), ft.Out(1))
		}
		hasCode = true
	default:
		return nil, fmt.Errorf("task %q: functions must return error or (int, error)", name)
	}

	sig, err := param.Inspect(structType)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", name, err)
	}

	return &Task{
		Name:    name,
		Usage:   usage,
		fn:      reflect.ValueOf(fn),
		sig:     sig,
		hasCode: hasCode,
	}, nil
}

// MustNew is like New but panics on error. Use for package-level task
// definitions where a bad signature is a programming error.
func MustNew(name, usage string, fn any) *Task {
	t, err := New(name, usage, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// Signature returns the task's derived parameter set.
func (t *Task) Signature() *param.Signature { return t.sig }

// Call builds the parameter struct from the resolved argument set and
// invokes the function. The int result is the exit code (0 when the
// function does not report one).
func (t *Task) Call(values map[string]any) (int, error) {
	var in []reflect.Value
	if t.sig.Struct != nil {
		sv := reflect.New(t.sig.Struct).Elem()
		for _, pr := range t.sig.Params {
			v, ok := values[pr.Name]
			if !ok {
				if pr.Required {
					return 0, fmt.Errorf("task %q: parameter %q is not optional", t.Name, pr.Name)
				}
				v = pr.Default
			}
			if v == nil {
				continue
			}
			rv := reflect.ValueOf(v)
			field := sv.Field(pr.Index)
			if !rv.Type().AssignableTo(field.Type()) {
				return 0, fmt.Errorf("task %q: parameter %q is expecting %s but got %T which is incompatible",
					t.Name, pr.Name, field.Type(), v)
			}
			field.Set(rv)
		}
		in = append(in, sv)
	}

	out := t.fn.Call(in)
	code := 0
	errIdx := 0
	if t.hasCode {
		code = int(out[0].Int())
		errIdx = 1
	}
	if e := out[errIdx].Interface(); e != nil {
		return code, e.(error)
	}
	return code, nil
}
