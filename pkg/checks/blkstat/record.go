// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package blkstat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SectorSize is the unit of the sector counters, independent of the device's
// logical block size.
const SectorSize = 512

// a /sys/block/<dev>/stat line has 11 fields; newer kernels append discard
// and flush counters which are ignored
const minRecordFields = 11

var ErrInvalidRecord = errors.New("invalid block stats record")

// positions (0-based) of the fields the check uses
const (
	fieldReadIOs      = 0
	fieldReadSectors  = 2
	fieldWriteIOs     = 4
	fieldWriteSectors = 6
)

// Counters are the cumulative per-device counters since boot.
type Counters struct {
	ReadOps      uint64
	ReadSectors  uint64
	WriteOps     uint64
	WriteSectors uint64
}

// Sample is a set of counters and the instant they were captured.
type Sample struct {
	Counters
	Timestamp time.Time
}

// ParseRecord extracts the read/write I/O and sector counters from one
// block device stat line.
func ParseRecord(line string) (Counters, error) {
	fields := strings.Fields(line)
	if len(fields) < minRecordFields {
		return Counters{}, fmt.Errorf("%w: expected at least %d fields, got %d", ErrInvalidRecord, minRecordFields, len(fields))
	}

	var c Counters
	targets := []struct {
		index int
		name  string
		dst   *uint64
	}{
		{fieldReadIOs, "read I/Os", &c.ReadOps},
		{fieldReadSectors, "read sectors", &c.ReadSectors},
		{fieldWriteIOs, "write I/Os", &c.WriteOps},
		{fieldWriteSectors, "write sectors", &c.WriteSectors},
	}
	for _, t := range targets {
		v, err := strconv.ParseUint(fields[t.index], 10, 64)
		if err != nil {
			return Counters{}, fmt.Errorf("%w: field %d (%s) %q is not an unsigned integer", ErrInvalidRecord, t.index+1, t.name, fields[t.index])
		}
		*t.dst = v
	}

	return c, nil
}

func ParseSample(line string, at time.Time) (Sample, error) {
	c, err := ParseRecord(line)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Counters: c, Timestamp: at}, nil
}
