// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

import "fmt"

// invariantError is the panic payload for precondition violations (spec §7:
// "Programmer errors ... are treated as fatal invariants; they are not in
// the status taxonomy"). It carries a component tag so a recover() in a
// caller's own harness can at least log which primitive was misused.
type invariantError struct {
	component string
	msg       string
}

func (e *invariantError) Error() string {
	return fmt.Sprintf("gkey: invariant violated in %s: %s", e.component, e.msg)
}

func panicInvariant(component, format string, args ...any) {
	panic(&invariantError{component: component, msg: fmt.Sprintf(format, args...)})
}
