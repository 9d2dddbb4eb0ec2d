// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type limits struct {
	IOPS float64 `validate:"gte=0"`
}

type sample struct {
	Device  string        `validate:"required,devname"`
	Desired string        `validate:"omitempty,kversion"`
	Unit    string        `validate:"oneof=b k m"`
	Timeout time.Duration `validate:"gt=0"`
	Limits  limits
}

func valid() sample {
	return sample{Device: "sda", Desired: "3.2.0-48", Unit: "m", Timeout: time.Second}
}

func TestStructAcceptsValidConfig(t *testing.T) {
	assert.NoError(t, Struct(valid()))

	for _, dev := range []string{"nvme0n1", "dm-0", "md127", "cciss!c0d0", "loop0"} {
		s := valid()
		s.Device = dev
		assert.NoError(t, Struct(s), dev)
	}
}

func TestStructRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*sample)
		message string
	}{
		{"missing device", func(s *sample) { s.Device = "" }, "Device is required"},
		{"path as device", func(s *sample) { s.Device = "../sda" }, `Device "../sda" is not a valid block device name`},
		{"device with slash", func(s *sample) { s.Device = "sda/stat" }, "not a valid block device name"},
		{"unit", func(s *sample) { s.Unit = "g" }, `Unit must be one of [b k m], got "g"`},
		{"version letters", func(s *sample) { s.Desired = "3.2.0-generic" }, "may only contain digits, dots and dashes"},
		{"timeout", func(s *sample) { s.Timeout = 0 }, "Timeout must be greater than 0"},
		{"negative limit", func(s *sample) { s.Limits.IOPS = -1 }, "Limits.IOPS must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := Struct(s)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
