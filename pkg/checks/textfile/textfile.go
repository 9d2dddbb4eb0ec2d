// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package textfile exports the values measured by a single check run in the
// Prometheus text format, for pickup by the node_exporter textfile collector.
package textfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cobaltcore-dev/hostcheck/pkg/checks/result"
)

const namespace = "hostcheck"

// Exporter collects gauges for one check run in a private registry.
type Exporter struct {
	dir      string
	registry *prometheus.Registry
}

func New(dir string) *Exporter {
	return &Exporter{dir: dir, registry: prometheus.NewRegistry()}
}

// Gauge records a single value under hostcheck_<subsystem>_<name>.
func (e *Exporter) Gauge(subsystem, name, help string, labels prometheus.Labels, value float64) error {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: labels,
	})
	if err := e.registry.Register(g); err != nil {
		return fmt.Errorf("registering %s_%s: %w", subsystem, name, err)
	}
	g.Set(value)
	return nil
}

// State records the outcome of the check as hostcheck_check_state, using the
// exit code values (0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN).
func (e *Exporter) State(check string, labels prometheus.Labels, state result.State) error {
	all := prometheus.Labels{"check": check}
	for k, v := range labels {
		all[k] = v
	}
	return e.Gauge("check", "state", "Outcome of the last check run (0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN)", all, float64(state.ExitCode()))
}

// Write stores everything gathered so far in <dir>/<name>.prom. The file is
// replaced atomically.
func (e *Exporter) Write(name string) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("creating textfile dir: %w", err)
	}
	path := filepath.Join(e.dir, name+".prom")
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
