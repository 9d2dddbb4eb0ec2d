// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package kernelversion

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shirou/gopsutil/host"
)

// Source reports the release string of the running kernel.
type Source interface {
	RunningVersion() (string, error)
}

// SignatureSource reads a version signature record such as
// "Ubuntu 3.2.0-48.74-generic 3.2.46" and returns its second field.
type SignatureSource struct {
	Path string
}

func (s SignatureSource) RunningVersion() (string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", s.Path, err)
		}
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidVersion, s.Path)
	}
	fields := strings.Fields(sc.Text())
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %s has %d fields, expected at least 2", ErrInvalidVersion, s.Path, len(fields))
	}
	return fields[1], nil
}

// UnameSource returns the kernel release as reported by uname.
type UnameSource struct{}

func (UnameSource) RunningVersion() (string, error) {
	v, err := host.KernelVersion()
	if err != nil {
		return "", fmt.Errorf("reading kernel release: %w", err)
	}
	return v, nil
}

// FallbackSource asks Fallback only when Primary's file does not exist.
type FallbackSource struct {
	Primary  Source
	Fallback Source
}

func (s FallbackSource) RunningVersion() (string, error) {
	v, err := s.Primary.RunningVersion()
	if errors.Is(err, fs.ErrNotExist) {
		return s.Fallback.RunningVersion()
	}
	return v, err
}
