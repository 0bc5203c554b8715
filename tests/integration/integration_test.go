package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskworks/jobrun/demo"
	"github.com/taskworks/jobrun/internal/runner"
	"github.com/taskworks/jobrun/internal/task"
)

func lookup(t *testing.T, fn string) *task.Task {
	t.Helper()
	tk, err := demo.Registry().Lookup("demo", fn)
	require.NoError(t, err)
	return tk
}

func writeParams(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "params.yml")
	require.NoError(t, os.WriteFile(path, []byte("value1: 2\nvalue2: 6\n"), 0o644))
	return path
}

func newRunner(opts ...runner.Option) *runner.Runner {
	opts = append(opts, runner.WithLogWriter(&bytes.Buffer{}))
	return runner.New(opts...)
}

// captureRun runs the task with its stdout routed into a buffer.
func captureRun(t *testing.T, tk *task.Task, args []string) (string, int, error) {
	t.Helper()
	var buf bytes.Buffer
	code, err := newRunner(runner.WithOutput(&buf)).Run(tk, args)
	return buf.String(), code, err
}

func TestPrintTaskSumsConfigValues(t *testing.T) {
	path := writeParams(t, t.TempDir())

	out, code, err := captureRun(t, lookup(t, "print"),
		[]string{"--name", "sometext", "--params", path})

	require.NoError(t, err)
	require.Equal(t, "Name is sometext\n", out)
	require.Equal(t, 8, code)
}

func TestPrintTaskAcceptsConfigDirectory(t *testing.T) {
	dir := t.TempDir()
	writeParams(t, dir)

	out, code, err := captureRun(t, lookup(t, "print"),
		[]string{"--name", "sometext", "--params", dir})

	require.NoError(t, err)
	require.Equal(t, "Name is sometext\n", out)
	require.Equal(t, 8, code)
}

func TestListsTaskCountsElements(t *testing.T) {
	out, code, err := captureRun(t, lookup(t, "lists"),
		[]string{"--lists", "lala, pepe"})

	require.NoError(t, err)
	require.Equal(t, "2\n", out)
	require.Equal(t, 2, code)
}

func TestTypesTaskConversions(t *testing.T) {
	code, err := newRunner().Run(lookup(t, "types"), []string{
		"--integer", "10",
		"--decimal", "10.5",
		"--compare-strategy", "Bigger is better",
		"--boolean", "true",
	})

	require.NoError(t, err)
	require.Equal(t, 0, code)
}

func TestTypesTaskRejectsEnumNonMember(t *testing.T) {
	_, err := newRunner().Run(lookup(t, "types"), []string{
		"--integer", "10",
		"--decimal", "10.5",
		"--compare-strategy", "Sideways is better",
	})

	var re *runner.ResolveError
	require.ErrorAs(t, err, &re)
	require.Contains(t, err.Error(), "Bigger is better")
}

func TestPreSuppliedValuesMatchCommandLine(t *testing.T) {
	path := writeParams(t, t.TempDir())

	out, code, err := captureRun(t, lookup(t, "print"),
		[]string{"--name", "sometext", "--params", path})
	require.NoError(t, err)

	var valOut bytes.Buffer
	valCode, valErr := newRunner(
		runner.WithValues(map[string]any{"name": "sometext", "params": path}),
		runner.WithOutput(&valOut),
	).Run(lookup(t, "print"), nil)

	require.NoError(t, valErr)
	require.Equal(t, code, valCode)
	require.Equal(t, out, valOut.String())
}

func TestMissingParamsFileFailsBeforeRun(t *testing.T) {
	_, err := newRunner().Run(lookup(t, "print"),
		[]string{"--name", "x", "--params", filepath.Join(t.TempDir(), "absent.yml")})

	var re *runner.ResolveError
	require.ErrorAs(t, err, &re)
}
