// Package logging builds the diagnostic logger for task runs.
//
// Loggers are constructed explicitly and passed down; there is no package
// global. The text handler emits one line per record:
//
//	[DEBUG] jobrun <mytask>: resolved arguments count=2
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/taskworks/jobrun/internal/config"
)

// New creates a logger tagged with the task name, writing to w. The level
// is debug when debug mode is requested (flag or JOBRUN_DEBUG), info
// otherwise. JOBRUN_LOG_FORMAT=json switches to a JSON handler.
func New(w io.Writer, taskName string, debug bool) *slog.Logger {
	cfg := config.Get()
	level := slog.LevelInfo
	if debug || cfg.Debug {
		level = slog.LevelDebug
	}
	if taskName == "" {
		taskName = "task"
	}

	if cfg.LogFormat == "json" {
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
		return slog.New(h).With("task", taskName)
	}

	return slog.New(&lineHandler{
		w:       w,
		mu:      &sync.Mutex{},
		task:    taskName,
		level:   level,
		noColor: cfg.NoColor,
	})
}

// lineHandler formats records as "[LEVEL] jobrun <task>: message k=v ...".
type lineHandler struct {
	w       io.Writer
	mu      *sync.Mutex
	task    string
	level   slog.Level
	noColor bool
	attrs   []slog.Attr
}

func (h *lineHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	tag := "[" + r.Level.String() + "]"
	if !h.noColor {
		tag = levelColor(r.Level).Sprint(tag)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s jobrun <%s>: %s", tag, h.task, r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

// WithGroup is accepted but flattened; grouped attrs keep their own keys.
func (h *lineHandler) WithGroup(string) slog.Handler { return h }

func levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgRed)
	case l >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case l >= slog.LevelInfo:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}
