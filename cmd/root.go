// Package cmd implements the jobrun command-line surface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskworks/jobrun/internal/runner"
	"github.com/taskworks/jobrun/internal/task"
)

var registry = task.NewRegistry()

// ExitError carries a specific process exit code through cobra.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// rootCmd represents the base command when called without any subcommands.
// Flag parsing is disabled because the accepted flags depend on the task
// being run; the derived parser handles them.
var rootCmd = &cobra.Command{
	Use:   "jobrun <module> <function> [--<param> <value> ...] [--debug]",
	Short: "Run typed task functions from the command line",
	Long: `jobrun turns registered task functions into command-line entry points.

A task declares its parameters as a typed struct; jobrun derives one flag
per parameter, converts the textual values, and invokes the function. The
function's integer result becomes the process exit code.

Parameters typed as a config namespace are given as a path to a YAML or
JSON file (or a directory containing one).`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runTask,
}

func runTask(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		return cmd.Help()
	}
	if len(args) < 2 {
		return &ExitError{Code: 2, Err: fmt.Errorf("expected <module> <function>, got %q", strings.Join(args, " "))}
	}

	module, err := resolveModule(args[0])
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}
	t, err := registry.Lookup(module, args[1])
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	r := runner.New()
	tokens := args[2:]
	for _, tok := range tokens {
		if tok == "-h" || tok == "--help" {
			r.Help(t, cmd.OutOrStdout())
			return nil
		}
	}

	code, err := r.Run(t, tokens)
	if err != nil {
		var re *runner.ResolveError
		if errors.As(err, &re) {
			return &ExitError{Code: 2, Err: err}
		}
		return &ExitError{Code: 1, Err: fmt.Errorf("task %s.%s failed: %w", module, args[1], err)}
	}
	if code != 0 {
		// The task reports its result through the exit code.
		return &ExitError{Code: code}
	}
	return nil
}

// resolveModule maps the first CLI argument to a registry module name. An
// argument that looks like a source path must exist on disk; its stem is
// the module name.
func resolveModule(arg string) (string, error) {
	if strings.HasSuffix(arg, ".go") || strings.ContainsRune(arg, os.PathSeparator) {
		if _, err := os.Stat(arg); err != nil {
			return "", fmt.Errorf("module path: %w", err)
		}
		base := filepath.Base(arg)
		return strings.TrimSuffix(base, filepath.Ext(base)), nil
	}
	return arg, nil
}

// Execute runs the root command against the given registry and terminates
// the process with the resulting exit code.
func Execute(reg *task.Registry) {
	registry = reg
	if err := rootCmd.Execute(); err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			if ee.Err != nil {
				fmt.Fprintf(os.Stderr, "jobrun: %v\n", ee.Err)
			}
			os.Exit(ee.Code)
		}
		fmt.Fprintf(os.Stderr, "jobrun: %v\n", err)
		os.Exit(1)
	}
}
