// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package blkstat

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimeDelta = errors.New("invalid time delta")
	ErrInvalidDelta     = errors.New("invalid block stats delta")
)

// Rates are the per second values measured between two samples.
type Rates struct {
	IOPS      float64
	ReadRate  float64
	WriteRate float64
	// Elapsed is the interval in whole seconds
	Elapsed int64
}

func (r Rates) values() [3]float64 {
	return [3]float64{r.IOPS, r.ReadRate, r.WriteRate}
}

// ComputeRates derives the rates between prev and cur, with byte rates divided
// by the unit's divisor. Counters that went backwards (a reboot between runs)
// and intervals shorter than a second are rejected rather than reported.
func ComputeRates(prev, cur Sample, unit Unit) (Rates, error) {
	elapsed := cur.Timestamp.Unix() - prev.Timestamp.Unix()
	if elapsed < 1 {
		return Rates{}, fmt.Errorf("%w: %ds between samples", ErrInvalidTimeDelta, elapsed)
	}

	deltas := [4]struct {
		name      string
		prev, cur uint64
	}{
		{"read I/Os", prev.ReadOps, cur.ReadOps},
		{"write I/Os", prev.WriteOps, cur.WriteOps},
		{"read sectors", prev.ReadSectors, cur.ReadSectors},
		{"write sectors", prev.WriteSectors, cur.WriteSectors},
	}
	for _, d := range deltas {
		if d.cur < d.prev {
			return Rates{}, fmt.Errorf("%w: %s went from %d to %d", ErrInvalidDelta, d.name, d.prev, d.cur)
		}
	}

	seconds := float64(elapsed)
	divisor := unit.Divisor()

	ioDelta := (cur.ReadOps - prev.ReadOps) + (cur.WriteOps - prev.WriteOps)
	readBytes := float64(cur.ReadSectors-prev.ReadSectors) * SectorSize
	writeBytes := float64(cur.WriteSectors-prev.WriteSectors) * SectorSize

	return Rates{
		IOPS:      float64(ioDelta) / seconds,
		ReadRate:  readBytes / seconds / divisor,
		WriteRate: writeBytes / seconds / divisor,
		Elapsed:   elapsed,
	}, nil
}
