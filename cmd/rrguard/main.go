// cmd/rrguard/main.go
package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes
const (
	exitInvalid = 1 // the candidate was rejected
	exitFailure = 2 // configuration, store or usage failure
)

// exitError carries a process exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitFailure
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
			err = ee.err
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "rrguard:", err)
		}
		os.Exit(code)
	}
}
