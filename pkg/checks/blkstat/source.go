// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package blkstat

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/disk"
)

var ErrUnknownDevice = errors.New("unknown block device")

// Source returns the current raw stat record of a block device. The record is
// what gets persisted, so it must be in the /sys/block/<dev>/stat layout.
type Source interface {
	Read(device string) (string, error)
}

// SysfsSource reads <Root>/block/<device>/stat.
type SysfsSource struct {
	Root string
}

func (s SysfsSource) Read(device string) (string, error) {
	path := filepath.Join(s.Root, "block", device, "stat")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w %q: %s does not exist", ErrUnknownDevice, device, path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidRecord, path)
	}
	line := strings.TrimSpace(sc.Text())
	if line == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidRecord, path)
	}
	return line, nil
}

// DiskstatsSource reads the counters from /proc/diskstats through gopsutil
// and renders them as a stat record.
type DiskstatsSource struct{}

func (DiskstatsSource) Read(device string) (string, error) {
	counters, err := disk.IOCounters(device)
	if err != nil {
		return "", fmt.Errorf("reading disk counters: %w", err)
	}
	stat, ok := counters[device]
	if !ok {
		return "", fmt.Errorf("%w %q: not listed in diskstats", ErrUnknownDevice, device)
	}
	return FormatIOCounters(stat), nil
}

// FormatIOCounters renders gopsutil counters in the 11 field stat layout.
// Byte counters are converted back to 512 byte sectors.
func FormatIOCounters(s disk.IOCountersStat) string {
	fields := []uint64{
		s.ReadCount,
		s.MergedReadCount,
		s.ReadBytes / SectorSize,
		s.ReadTime,
		s.WriteCount,
		s.MergedWriteCount,
		s.WriteBytes / SectorSize,
		s.WriteTime,
		s.IopsInProgress,
		s.IoTime,
		s.WeightedIO,
	}

	out := make([]string, len(fields))
	for i, v := range fields {
		out[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(out, " ")
}
