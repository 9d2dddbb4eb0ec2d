// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package kernelversion

import "slices"

type Comparison int

const (
	Match Comparison = iota
	Ahead
	Behind
	Indeterminate
)

func (c Comparison) String() string {
	switch c {
	case Match:
		return "match"
	case Ahead:
		return "ahead"
	case Behind:
		return "behind"
	default:
		return "indeterminate"
	}
}

// Compare orders the running version against the desired one. Components are
// compared up to the shorter of the two, without zero padding. When that
// common prefix is equal, a desired version that is less specific than the
// running one matches it; the reverse can not be ordered.
func Compare(running, desired []int) Comparison {
	if slices.Equal(running, desired) {
		return Match
	}

	n := min(len(running), len(desired))
	for i := 0; i < n; i++ {
		switch {
		case running[i] < desired[i]:
			return Behind
		case running[i] > desired[i]:
			return Ahead
		}
	}

	if len(desired) < len(running) {
		return Match
	}
	return Indeterminate
}
