// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package blkstat checks block device I/O rates against warning and critical
// limits.
//
// Counters are cumulative, so every run compares the current stat record with
// the one persisted by the previous run for the same device. The persisted
// record's modification time is its capture time.
package blkstat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cobaltcore-dev/hostcheck/pkg/checks/result"
	"github.com/cobaltcore-dev/hostcheck/pkg/checks/statestore"
	"github.com/cobaltcore-dev/hostcheck/pkg/checks/textfile"
)

const Label = "BLKSTAT"

type Check struct {
	cfg    Config
	source Source
	store  statestore.Store

	Now    func() time.Time
	Logger zerolog.Logger
}

func NewCheck(cfg Config, source Source, store statestore.Store) *Check {
	return &Check{
		cfg:    cfg,
		source: source,
		store:  store,
		Now:    time.Now,
		Logger: zerolog.Nop(),
	}
}

// Run performs one measurement. The device's state is locked for the whole
// load, evaluate and save sequence.
func (c *Check) Run(ctx context.Context) result.Result {
	device := c.cfg.Device

	if dims := c.cfg.InvertedLimits(); len(dims) > 0 {
		c.Logger.Warn().Strs("dimensions", dims).Msg("warning limit above critical limit, warning can not be reached")
	}

	lockCtx, cancel := context.WithTimeout(ctx, c.cfg.LockTimeout)
	unlock, err := c.store.Lock(lockCtx, device)
	cancel()
	if errors.Is(err, statestore.ErrLocked) {
		c.Logger.Warn().Err(err).Dur("lock_timeout", c.cfg.LockTimeout).Msg("state locked")
		return result.NewUnknown("state for %s is locked by another run", device)
	}
	if err != nil {
		return result.FromError("locking state", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			c.Logger.Error().Err(err).Msg("error releasing state lock")
		}
	}()

	now := c.Now()
	raw, err := c.source.Read(device)
	if err != nil {
		return result.FromError("reading stats", err)
	}
	cur, err := ParseSample(raw, now)
	if err != nil {
		return result.FromError(fmt.Sprintf("current stats for %s", device), err)
	}

	res, rates := c.evaluate(cur)

	// the current sample is the baseline of the next run whatever the outcome
	if err := c.store.Save(device, raw, now); err != nil {
		c.Logger.Error().Err(err).Str("device", device).Msg("error saving state")
	} else {
		c.Logger.Debug().Str("device", device).Str("record", raw).Msg("state saved")
	}

	if c.cfg.TextfileDir != "" {
		if err := c.export(res, rates); err != nil {
			c.Logger.Error().Err(err).Msg("error writing textfile")
		}
	}

	return res
}

func (c *Check) evaluate(cur Sample) (result.Result, *Rates) {
	device := c.cfg.Device

	rec, err := c.store.Load(device)
	if errors.Is(err, statestore.ErrNotFound) {
		c.Logger.Info().Str("device", device).Msg("no previous sample, recording baseline")
		return result.NewUnknown("no previous sample for %s, baseline recorded", device), nil
	}
	if err != nil {
		return result.FromError("reading previous state", err), nil
	}

	prev, err := ParseSample(rec.Data, rec.ModTime)
	if err != nil {
		return result.FromError(fmt.Sprintf("previous state for %s", device), err), nil
	}

	rates, err := ComputeRates(prev, cur, c.cfg.Unit)
	if err != nil {
		c.Logger.Warn().Err(err).Time("previous", prev.Timestamp).Time("current", cur.Timestamp).Msg("rates not computed")
		return result.FromError(device, err), nil
	}

	ev := Evaluate(rates, c.cfg.Warning, c.cfg.Critical)
	c.Logger.Debug().
		Float64("iops", rates.IOPS).
		Float64("read_rate", rates.ReadRate).
		Float64("write_rate", rates.WriteRate).
		Int64("elapsed_seconds", rates.Elapsed).
		Str("state", ev.State.String()).
		Msg("rates evaluated")

	return result.Result{State: ev.State, Message: c.message(rates, ev)}, &rates
}

func (c *Check) message(r Rates, ev Evaluation) string {
	unit := c.cfg.Unit.Symbol()
	measured := r.values()
	warn, crit := c.cfg.Warning.values(), c.cfg.Critical.values()

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %.2f iops, read %.2f %s, write %.2f %s over %ds",
		c.cfg.Device, r.IOPS, r.ReadRate, unit, r.WriteRate, unit, r.Elapsed)

	if len(ev.Exceeded) > 0 {
		limits, level := warn, "warning"
		if ev.State == result.Critical {
			limits, level = crit, "critical"
		}
		parts := make([]string, 0, len(ev.Exceeded))
		for i, dim := range dimensions {
			if slices.Contains(ev.Exceeded, dim) {
				parts = append(parts, fmt.Sprintf("%s %.2f > %s", dim, measured[i], formatFloat(limits[i])))
			}
		}
		fmt.Fprintf(&b, " (%s: %s)", level, strings.Join(parts, ", "))
	}

	b.WriteString(" |")
	for i, dim := range dimensions {
		fmt.Fprintf(&b, " %s=%s;%s;%s;0", dim, formatFloat(measured[i]), formatFloat(warn[i]), formatFloat(crit[i]))
	}
	return b.String()
}

func (c *Check) export(res result.Result, rates *Rates) error {
	e := textfile.New(c.cfg.TextfileDir)
	labels := prometheus.Labels{"device": c.cfg.Device}

	if err := e.State("blkstat", labels, res.State); err != nil {
		return err
	}
	if rates != nil {
		divisor := c.cfg.Unit.Divisor()
		gauges := []struct {
			name, help string
			value      float64
		}{
			{"iops", "Completed read and write operations per second", rates.IOPS},
			{"read_bytes_per_second", "Bytes read per second", rates.ReadRate * divisor},
			{"write_bytes_per_second", "Bytes written per second", rates.WriteRate * divisor},
			{"interval_seconds", "Seconds between the compared samples", float64(rates.Elapsed)},
		}
		for _, g := range gauges {
			if err := e.Gauge("blkstat", g.name, g.help, labels, g.value); err != nil {
				return err
			}
		}
	}
	return e.Write("hostcheck_blkstat_" + c.cfg.Device)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
