// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package kernelversion

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource returns a fixed version or error.
type fixedSource struct {
	version string
	err     error
}

func (s fixedSource) RunningVersion() (string, error) {
	return s.version, s.err
}

func writeSignature(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "version_signature")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSignatureSource(t *testing.T) {
	path := writeSignature(t, "Ubuntu 3.2.0-48.74-generic 3.2.46\n")

	v, err := SignatureSource{Path: path}.RunningVersion()
	require.NoError(t, err)
	assert.Equal(t, "3.2.0-48.74-generic", v)
}

func TestSignatureSourceErrors(t *testing.T) {
	_, err := SignatureSource{Path: writeSignature(t, "")}.RunningVersion()
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = SignatureSource{Path: writeSignature(t, "Ubuntu\n")}.RunningVersion()
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = SignatureSource{Path: filepath.Join(t.TempDir(), "missing")}.RunningVersion()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFallbackSource(t *testing.T) {
	fallback := fixedSource{version: "5.15.0-91-generic"}

	s := FallbackSource{Primary: SignatureSource{Path: filepath.Join(t.TempDir(), "missing")}, Fallback: fallback}
	v, err := s.RunningVersion()
	require.NoError(t, err)
	assert.Equal(t, "5.15.0-91-generic", v)

	s.Primary = SignatureSource{Path: writeSignature(t, "Ubuntu 3.2.0-48.74-generic 3.2.46")}
	v, err = s.RunningVersion()
	require.NoError(t, err)
	assert.Equal(t, "3.2.0-48.74-generic", v)

	broken := errors.New("permission denied")
	s.Primary = fixedSource{err: broken}
	_, err = s.RunningVersion()
	assert.ErrorIs(t, err, broken)
}
