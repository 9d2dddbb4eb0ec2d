// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package blkstat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cobaltcore-dev/hostcheck/pkg/checks/result"
)

func TestEvaluate(t *testing.T) {
	warning := Thresholds{IOPS: 100, ReadRate: 10, WriteRate: 10}
	critical := Thresholds{IOPS: 200, ReadRate: 20, WriteRate: 20}

	tests := []struct {
		name     string
		rates    Rates
		state    result.State
		exceeded []string
	}{
		{"idle", Rates{}, result.OK, nil},
		{"at warning limit is not above it", Rates{IOPS: 100, ReadRate: 10, WriteRate: 10}, result.OK, nil},
		{"iops warning", Rates{IOPS: 100.5}, result.Warning, []string{"iops"}},
		{"read and write warning", Rates{ReadRate: 11, WriteRate: 15}, result.Warning, []string{"read", "write"}},
		{"at critical limit is warning", Rates{IOPS: 200}, result.Warning, []string{"iops"}},
		{"write critical", Rates{WriteRate: 20.01}, result.Critical, []string{"write"}},
		{"critical wins over warning", Rates{IOPS: 150, ReadRate: 25}, result.Critical, []string{"read"}},
		{"all critical", Rates{IOPS: 1000, ReadRate: 100, WriteRate: 100}, result.Critical, []string{"iops", "read", "write"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Evaluate(tt.rates, warning, critical)
			assert.Equal(t, tt.state, ev.State)
			assert.Equal(t, tt.exceeded, ev.Exceeded)
		})
	}
}

func TestEvaluateInvertedLimits(t *testing.T) {
	// critical is checked first, so a warning limit above the critical one is
	// never the reason for a result
	warning := Thresholds{IOPS: 500, ReadRate: 10, WriteRate: 10}
	critical := Thresholds{IOPS: 100, ReadRate: 20, WriteRate: 20}

	ev := Evaluate(Rates{IOPS: 300}, warning, critical)
	assert.Equal(t, result.Critical, ev.State)
	assert.Equal(t, []string{"iops"}, ev.Exceeded)
}
