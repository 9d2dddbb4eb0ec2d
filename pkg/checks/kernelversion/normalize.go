// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package kernelversion

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidVersion = errors.New("invalid kernel version")

var (
	// "3.2.0-48.74-generic" -> "3.2.0" and "48"
	releasePattern = regexp.MustCompile(`^(\d+\.\d+\.\d+)-(\d+)`)
	nonVersion     = regexp.MustCompile(`[^0-9.]`)
)

// Normalize turns a kernel release string into its numeric components.
// A "<major.minor.patch>-<build>" release becomes major.minor.patch.build and
// anything after the build number is dropped. Every other character that is
// neither a digit nor a dot is removed before splitting.
func Normalize(raw string) ([]int, error) {
	v := strings.TrimSpace(raw)
	if m := releasePattern.FindStringSubmatch(v); m != nil {
		v = m[1] + "." + m[2]
	}
	v = nonVersion.ReplaceAllString(v, "")
	if v == "" {
		return nil, fmt.Errorf("%w: %q has no numeric components", ErrInvalidVersion, raw)
	}

	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q has an empty component", ErrInvalidVersion, raw)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, raw, err)
		}
		out[i] = n
	}
	return out, nil
}

// Format joins version components with dots.
func Format(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ".")
}
