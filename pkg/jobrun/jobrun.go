// Package jobrun provides the public API for running typed task functions
// from the command line.
//
// A binary embeds jobrun by registering its tasks and handing the registry
// to Main:
//
//	type Params struct {
//	    Name   string          `arg:"name" usage:"name to greet"`
//	    Params *conf.Namespace `arg:"params" usage:"config file"`
//	}
//
//	func mytask(p Params) (int, error) {
//	    fmt.Printf("Name is %s\n", p.Name)
//	    v1, _ := p.Params.Int("value1")
//	    v2, _ := p.Params.Int("value2")
//	    return v1 + v2, nil
//	}
//
//	func main() {
//	    reg := jobrun.NewRegistry()
//	    reg.Register("mymodule", jobrun.MustTask("mytask", "sum two values", mytask))
//	    jobrun.Main(reg)
//	}
//
// Then: mybinary mymodule mytask --name sometext --params params.yml
//
// For non-interactive embedding, run a task against pre-supplied values:
//
//	r := jobrun.NewRunner(jobrun.WithValues(map[string]any{
//	    "name":   "sometext",
//	    "params": "params.yml", // loaded as a config file
//	}))
//	code, err := r.Run(task, nil)
package jobrun

import (
	"github.com/taskworks/jobrun/cmd"
	"github.com/taskworks/jobrun/internal/param"
	"github.com/taskworks/jobrun/internal/runner"
	"github.com/taskworks/jobrun/internal/task"
)

// Task is a named function runnable from the command line.
type Task = task.Task

// Registry maps module names to tasks.
type Registry = task.Registry

// Runner resolves arguments and invokes tasks.
type Runner = runner.Runner

// Option configures a Runner.
type Option = runner.Option

// Enum is implemented by named string types with a fixed member set.
type Enum = param.Enum

// Runner options.
var (
	WithValues           = runner.WithValues
	WithIgnoredFlags     = runner.WithIgnoredFlags
	WithLogger           = runner.WithLogger
	WithLogWriter        = runner.WithLogWriter
	WithOutput           = runner.WithOutput
	WithDefaultExtension = runner.WithDefaultExtension
)

// NewTask creates a task from a function. See the task forms accepted by
// the runner in the package example above.
func NewTask(name, usage string, fn any) (*Task, error) {
	return task.New(name, usage, fn)
}

// MustTask is like NewTask but panics on error. Use for package-level task
// definitions.
func MustTask(name, usage string, fn any) *Task {
	return task.MustNew(name, usage, fn)
}

// NewRegistry returns an empty task registry.
func NewRegistry() *Registry {
	return task.NewRegistry()
}

// NewRunner creates a runner. Without options it parses the command line;
// WithValues switches it to pre-supplied values.
func NewRunner(opts ...Option) *Runner {
	return runner.New(opts...)
}

// Main drives the CLI against the registry and terminates the process with
// the task's exit code.
func Main(reg *Registry) {
	cmd.Execute(reg)
}
