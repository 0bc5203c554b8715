// Package runner owns argument resolution and task invocation.
//
// A Runner is constructed in exactly one of two modes: parse the supplied
// command-line tokens (the default), or validate a pre-supplied value map
// (WithValues) for non-interactive embedding. Both modes produce the same
// resolved argument set and feed the same invocation path.
package runner

import (
	"io"
	"log/slog"
	"os"

	"github.com/taskworks/jobrun/internal/argparse"
	"github.com/taskworks/jobrun/internal/config"
	"github.com/taskworks/jobrun/internal/logging"
	"github.com/taskworks/jobrun/internal/output"
	"github.com/taskworks/jobrun/internal/task"
)

// ResolveError marks failures that happen while resolving the argument
// set, before the task is invoked. Callers map these to usage-style exits.
type ResolveError struct {
	Err error
}

func (e *ResolveError) Error() string { return e.Err.Error() }

func (e *ResolveError) Unwrap() error { return e.Err }

// Runner resolves arguments for a task and executes it.
type Runner struct {
	values     map[string]any // pre-supplied mode when non-nil
	ignore     []string
	logger     *slog.Logger
	logW       io.Writer
	out        io.Writer
	defaultExt string
}

// Option configures a Runner.
type Option func(*Runner)

// WithValues switches the runner to pre-supplied mode: arguments come from
// the map instead of the command line.
func WithValues(values map[string]any) Option {
	return func(r *Runner) { r.values = values }
}

// WithIgnoredFlags adds flag names the parser accepts but strips from the
// resolved set. Use for tokens the caller consumes for other purposes.
func WithIgnoredFlags(flags ...string) Option {
	return func(r *Runner) { r.ignore = append(r.ignore, flags...) }
}

// WithLogger injects the diagnostic logger. Without it the runner builds
// one per run, honoring the --debug flag.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithLogWriter redirects diagnostic output (default os.Stderr).
func WithLogWriter(w io.Writer) Option {
	return func(r *Runner) { r.logW = w }
}

// WithOutput injects the task stdout writer: while the task runs, everything
// it prints is copied into w. The output still reaches the process stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithDefaultExtension overrides the extension used when a config parameter
// points at a directory.
func WithDefaultExtension(ext string) Option {
	return func(r *Runner) { r.defaultExt = ext }
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		logW:       os.Stderr,
		defaultExt: config.Get().DefaultExtension,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run resolves the argument set via the active mode and invokes the task,
// returning its exit code. Resolution either fully succeeds or the task
// never runs.
func (r *Runner) Run(t *task.Task, args []string) (int, error) {
	var (
		resolved map[string]any
		debug    bool
		err      error
	)
	if r.values != nil {
		resolved, err = argparse.ResolveValues(t.Signature(), r.values, r.defaultExt)
	} else {
		p := argparse.New(t.Name, t.Signature(), r.ignore, r.defaultExt)
		resolved, debug, err = p.Parse(args)
	}
	if err != nil {
		return 0, &ResolveError{Err: err}
	}

	logger := r.logger
	if logger == nil {
		logger = logging.New(r.logW, t.Name, debug)
	}
	logger.Debug("arguments resolved", "count", len(resolved))

	code, err := r.invoke(t, resolved)
	if err != nil {
		logger.Error("task failed", "error", err)
		return code, err
	}
	logger.Debug("task finished", "exit_code", code)
	return code, nil
}

// invoke calls the task, teeing its stdout into the injected writer when one
// is set.
func (r *Runner) invoke(t *task.Task, resolved map[string]any) (int, error) {
	if r.out == nil {
		return t.Call(resolved)
	}
	restore, err := output.Route(output.NewTee(os.Stdout, r.out))
	if err != nil {
		return 0, err
	}
	code, err := t.Call(resolved)
	if rerr := restore(); rerr != nil && err == nil {
		err = rerr
	}
	return code, err
}

// Help writes the task's derived flag help without parsing anything.
func (r *Runner) Help(t *task.Task, w io.Writer) {
	p := argparse.New(t.Name, t.Signature(), r.ignore, r.defaultExt)
	io.WriteString(w, p.Help())
}
