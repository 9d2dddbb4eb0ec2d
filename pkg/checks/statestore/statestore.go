// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package statestore persists the last seen sample of a check between runs.
//
// Each key (a device name, for the block I/O check) maps to one file holding a
// single line. The file's modification time is the capture time of that line.
// Runs for the same key serialise on an advisory lock file next to the state.
package statestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gofrs/flock"
)

const (
	stateSuffix = ".state"
	lockSuffix  = ".lock"

	// a state record is one short line; anything larger is not ours
	maxRecordSize = 64 * 1024

	defaultRetryInterval = 50 * time.Millisecond
)

var (
	ErrNotFound   = errors.New("no state recorded")
	ErrLocked     = errors.New("state is locked by another run")
	ErrInvalidKey = errors.New("invalid state key")
)

// Record is a stored line and the time it was captured.
type Record struct {
	Data    string
	ModTime time.Time
}

// Store is a keyed store of single-line records with per-key exclusive locking.
type Store interface {
	Load(key string) (Record, error)
	Save(key, data string, at time.Time) error
	Lock(ctx context.Context, key string) (unlock func() error, err error)
}

// FileStore keeps every key in its own file under Dir, named
// "<Prefix>_<key>.state".
type FileStore struct {
	Dir           string
	Prefix        string
	RetryInterval time.Duration
}

func NewFileStore(dir, prefix string) *FileStore {
	return &FileStore{Dir: dir, Prefix: prefix, RetryInterval: defaultRetryInterval}
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Path returns the file that holds key.
func (s *FileStore) Path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	name := key + stateSuffix
	if s.Prefix != "" {
		name = s.Prefix + "_" + name
	}
	return filepath.Join(s.Dir, name), nil
}

// Load returns the record stored for key. A key that was never saved yields an
// error wrapping ErrNotFound.
func (s *FileStore) Load(key string) (Record, error) {
	path, err := s.Path(key)
	if err != nil {
		return Record{}, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("opening state: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return Record{}, fmt.Errorf("stat state: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(f, maxRecordSize))
	if err != nil {
		return Record{}, fmt.Errorf("reading state %s: %w", path, err)
	}

	return Record{
		Data:    strings.TrimRight(string(data), "\r\n"),
		ModTime: info.ModTime(),
	}, nil
}

// Save replaces the record for key with data captured at at. The write goes to
// a temporary file that is renamed over the old state, so readers never see a
// partial line.
func (s *FileStore) Save(key, data string, at time.Time) (err error) {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary state: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(strings.TrimRight(data, "\r\n") + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing state: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod state: %w", err)
	}
	if err = os.Chtimes(tmp.Name(), at, at); err != nil {
		return fmt.Errorf("setting state time: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing state: %w", err)
	}
	return nil
}

// Lock takes the exclusive lock for key, retrying until ctx is done. The
// returned function releases it.
func (s *FileStore) Lock(ctx context.Context, key string) (func() error, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	interval := s.RetryInterval
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	fl := flock.New(path + lockSuffix)

	var lockErr error
	operation := func() error {
		locked, err := fl.TryLock()
		if err != nil {
			// not a contention problem, retrying will not help
			lockErr = err
			return nil
		}
		if !locked {
			return ErrLocked
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(backoff.NewConstantBackOff(interval), ctx)); err != nil {
		return nil, fmt.Errorf("%s: %w", fl.Path(), ErrLocked)
	}
	if lockErr != nil {
		return nil, fmt.Errorf("locking %s: %w", fl.Path(), lockErr)
	}

	return fl.Unlock, nil
}
