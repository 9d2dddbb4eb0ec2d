// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package kernelversion checks that the running kernel is at least the
// release an operator asked for. A kernel that is behind is CRITICAL; there is
// no WARNING level.
package kernelversion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/cobaltcore-dev/hostcheck/pkg/checks/result"
	"github.com/cobaltcore-dev/hostcheck/pkg/checks/textfile"
)

type Check struct {
	cfg    Config
	source Source

	Logger zerolog.Logger
}

func NewCheck(cfg Config, source Source) *Check {
	return &Check{cfg: cfg, source: source, Logger: zerolog.Nop()}
}

func (c *Check) Run() result.Result {
	res, cmp := c.evaluate()

	if c.cfg.TextfileDir != "" {
		if err := c.export(res, cmp); err != nil {
			c.Logger.Error().Err(err).Msg("error writing textfile")
		}
	}
	return res
}

func (c *Check) evaluate() (result.Result, Comparison) {
	desired, err := Normalize(c.cfg.Desired)
	if err != nil {
		return result.FromError("desired version", err), Indeterminate
	}

	raw, err := c.source.RunningVersion()
	if err != nil {
		return result.FromError("reading running kernel version", err), Indeterminate
	}
	running, err := Normalize(raw)
	if err != nil {
		return result.FromError("running version", err), Indeterminate
	}

	cmp := Compare(running, desired)
	c.Logger.Debug().
		Str("raw", raw).
		Str("running", Format(running)).
		Str("desired", Format(desired)).
		Stringer("comparison", cmp).
		Msg("kernel versions compared")

	r, d := Format(running), Format(desired)
	switch cmp {
	case Match:
		return result.NewOK("running kernel %s matches %s", r, d), cmp
	case Ahead:
		return result.NewOK("running kernel %s is newer than %s", r, d), cmp
	case Behind:
		return result.NewCritical("running kernel %s is behind %s", r, d), cmp
	default:
		return result.NewUnknown("unable to compare running kernel %s with %s", r, d), cmp
	}
}

func (c *Check) export(res result.Result, cmp Comparison) error {
	e := textfile.New(c.cfg.TextfileDir)
	if err := e.State("kernel", nil, res.State); err != nil {
		return err
	}
	if cmp != Indeterminate {
		upToDate := 0.0
		if cmp != Behind {
			upToDate = 1
		}
		labels := prometheus.Labels{"desired": c.cfg.Desired}
		if err := e.Gauge("kernel", "up_to_date", "Whether the running kernel is at least the desired release", labels, upToDate); err != nil {
			return err
		}
	}
	return e.Write("hostcheck_kernel")
}
