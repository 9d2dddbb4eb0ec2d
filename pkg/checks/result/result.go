// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package result holds the outcome of a single check run and renders it the way
// a polling supervisor expects: one line on stdout and an exit status.
package result

import (
	"fmt"
	"io"
	"strings"
)

// State is the outcome of a check. Its numeric value is the process exit code.
type State int

const (
	OK State = iota
	Warning
	Critical
	Unknown
)

func (s State) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the exit status a supervisor maps back to s.
func (s State) ExitCode() int {
	if s < OK || s > Unknown {
		return int(Unknown)
	}
	return int(s)
}

// Worse reports whether s ranks above other on the OK < WARNING < CRITICAL scale.
// UNKNOWN is not a point on that scale and never compares as worse or better.
func (s State) Worse(other State) bool {
	if s == Unknown || other == Unknown {
		return false
	}
	return s > other
}

type Result struct {
	State   State
	Message string
}

func newResult(state State, format string, args ...interface{}) Result {
	return Result{State: state, Message: fmt.Sprintf(format, args...)}
}

func NewOK(format string, args ...interface{}) Result {
	return newResult(OK, format, args...)
}

func NewWarning(format string, args ...interface{}) Result {
	return newResult(Warning, format, args...)
}

func NewCritical(format string, args ...interface{}) Result {
	return newResult(Critical, format, args...)
}

func NewUnknown(format string, args ...interface{}) Result {
	return newResult(Unknown, format, args...)
}

// FromError reports err as UNKNOWN, prefixed with what was being attempted.
func FromError(what string, err error) Result {
	if what == "" {
		return NewUnknown("%v", err)
	}
	return NewUnknown("%s: %v", what, err)
}

// Line renders the result as "<LABEL> <STATE>: <message>" on a single line.
func (r Result) Line(label string) string {
	msg := strings.Join(strings.Fields(strings.ReplaceAll(r.Message, "\n", " ")), " ")
	prefix := r.State.String()
	if label != "" {
		prefix = label + " " + prefix
	}
	return prefix + ": " + msg
}

// Emit writes the result line to w and returns the exit code for it.
func Emit(w io.Writer, label string, r Result) int {
	_, _ = fmt.Fprintln(w, r.Line(label))
	return r.State.ExitCode()
}
