package output

import "errors"

var (
	errAlreadyCapturing = errors.New("output: capture already in progress")
	errNotCapturing     = errors.New("output: no capture in progress")
)
