// Package output provides stdout capture utilities for jobrun.
// Tasks print through the process stdout; the capturer lets tests and
// embedding code observe that output without changing task code.
package output

import (
	"io"
	"os"
	"sync"
)

// Capturer swaps os.Stdout for a pipe and collects everything written to it
// until Restore is called.
type Capturer struct {
	mu       sync.Mutex
	original *os.File
	r, w     *os.File
	done     chan struct{}
	buf      []byte
}

// NewCapturer creates an idle capturer.
func NewCapturer() *Capturer {
	return &Capturer{}
}

// Start redirects os.Stdout into the capturer. Calling Start twice without
// an intervening Restore is an error.
func (c *Capturer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w != nil {
		return errAlreadyCapturing
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	c.original = os.Stdout
	c.r, c.w = r, w
	c.done = make(chan struct{})
	os.Stdout = w

	go func() {
		data, _ := io.ReadAll(r)
		c.mu.Lock()
		c.buf = data
		c.mu.Unlock()
		close(c.done)
	}()
	return nil
}

// Restore puts os.Stdout back and returns everything captured.
func (c *Capturer) Restore() (string, error) {
	c.mu.Lock()
	if c.w == nil {
		c.mu.Unlock()
		return "", errNotCapturing
	}
	os.Stdout = c.original
	w, done := c.w, c.done
	c.w = nil
	c.mu.Unlock()

	if err := w.Close(); err != nil {
		return "", err
	}
	<-done

	c.mu.Lock()
	defer c.mu.Unlock()
	out := string(c.buf)
	c.buf = nil
	c.r = nil
	return out, nil
}

// Route swaps os.Stdout for a pipe that streams into w as bytes arrive. The
// returned restore function puts os.Stdout back, drains the pipe, and
// reports any copy error.
func Route(w io.Writer) (func() error, error) {
	original := os.Stdout
	r, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	os.Stdout = pw

	done := make(chan error, 1)
	go func() {
		_, cerr := io.Copy(w, r)
		done <- cerr
	}()

	return func() error {
		os.Stdout = original
		if err := pw.Close(); err != nil {
			return err
		}
		return <-done
	}, nil
}

// Tee writes everything to both the original and the capture writer. The
// original's result is reported; capture failures are ignored.
type Tee struct {
	original io.Writer
	capture  io.Writer
}

// NewTee creates a tee writer.
func NewTee(original, capture io.Writer) *Tee {
	return &Tee{original: original, capture: capture}
}

// Write implements io.Writer.
func (t *Tee) Write(p []byte) (int, error) {
	if t.capture != nil {
		t.capture.Write(p)
	}
	if t.original != nil {
		return t.original.Write(p)
	}
	return len(p), nil
}
