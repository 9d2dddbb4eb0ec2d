// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package statestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type FileStoreSuite struct {
	suite.Suite
	dir   string
	store *FileStore
}

func (suite *FileStoreSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.store = NewFileStore(filepath.Join(suite.dir, "state"), "hostcheck")
	suite.store.RetryInterval = 5 * time.Millisecond
}

func (suite *FileStoreSuite) TestPathIsDerivedFromPrefixAndKey() {
	path, err := suite.store.Path("sda")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), filepath.Join(suite.dir, "state", "hostcheck_sda.state"), path)

	bare := NewFileStore(suite.dir, "")
	path, err = bare.Path("nvme0n1")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), filepath.Join(suite.dir, "nvme0n1.state"), path)
}

func (suite *FileStoreSuite) TestInvalidKeys() {
	for _, key := range []string{"", ".", "..", "../etc/passwd", "a/b", `a\b`} {
		_, err := suite.store.Path(key)
		assert.ErrorIs(suite.T(), err, ErrInvalidKey, key)
	}
}

func (suite *FileStoreSuite) TestLoadMissingKey() {
	_, err := suite.store.Load("sda")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *FileStoreSuite) TestSaveThenLoadRoundTrip() {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	line := "  100 0 200 0 50 0 100 0 0 0 0"

	suite.Require().NoError(suite.store.Save("sda", line+"\n", at))

	rec, err := suite.store.Load("sda")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), line, rec.Data)
	assert.True(suite.T(), rec.ModTime.Equal(at), "mtime %s, want %s", rec.ModTime, at)

	// overwriting keeps exactly one line and moves the capture time
	later := at.Add(10 * time.Second)
	suite.Require().NoError(suite.store.Save("sda", "150 0 300 0 80 0 160 0 0 0 0", later))
	rec, err = suite.store.Load("sda")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "150 0 300 0 80 0 160 0 0 0 0", rec.Data)
	assert.True(suite.T(), rec.ModTime.Equal(later))

	entries, err := os.ReadDir(suite.store.Dir)
	suite.Require().NoError(err)
	for _, e := range entries {
		assert.NotContains(suite.T(), e.Name(), ".tmp-", "temporary file left behind")
	}
}

func (suite *FileStoreSuite) TestLockIsExclusivePerKey() {
	ctx := context.Background()

	unlock, err := suite.store.Lock(ctx, "sda")
	suite.Require().NoError(err)

	// a different key is independent
	unlockOther, err := suite.store.Lock(ctx, "sdb")
	suite.Require().NoError(err)
	suite.Require().NoError(unlockOther())

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = suite.store.Lock(short, "sda")
	assert.ErrorIs(suite.T(), err, ErrLocked)

	suite.Require().NoError(unlock())

	unlock, err = suite.store.Lock(ctx, "sda")
	suite.Require().NoError(err)
	suite.Require().NoError(unlock())
}

func (suite *FileStoreSuite) TestLockRejectsInvalidKey() {
	_, err := suite.store.Lock(context.Background(), "../x")
	assert.ErrorIs(suite.T(), err, ErrInvalidKey)
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FileStoreSuite))
}
