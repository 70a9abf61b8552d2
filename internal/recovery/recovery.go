// internal/recovery/recovery.go
// Package recovery turns panics into a diagnosable crash instead of a bare
// stack dump. Deferred at the top of main and of long-lived goroutines
// (the HTTP serve loop, the player); nothing in the signalling core is
// expected to panic, so any panic is a programming error worth the full
// trace.
package recovery

import (
	"fmt"
	"os"
	"runtime/debug"
)

// exit is replaceable in tests.
var exit = os.Exit

// HandlePanic recovers a panic, writes the value and stack trace to
// stderr, and exits with code 1. Defer it at the top of main.
func HandlePanic() {
	if r := recover(); r != nil {
		report(r)
		exit(1)
	}
}

// HandlePanicFunc is HandlePanic with a cleanup hook that runs before the
// process exits. Defer it in goroutines that hold resources a crash must
// still release (an open journal, a lit indicator).
func HandlePanicFunc(cleanup func()) {
	if r := recover(); r != nil {
		report(r)
		if cleanup != nil {
			cleanup()
		}
		exit(1)
	}
}

func report(r any) {
	_, _ = fmt.Fprintf(os.Stderr, "FATAL: %v\n\nStack trace:\n%s\n", r, debug.Stack())
}
