// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package kernelversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name             string
		running, desired []int
		want             Comparison
	}{
		{"behind", []int{3, 2, 0, 30}, []int{3, 2, 0, 48}, Behind},
		{"ahead", []int{3, 5, 0, 10}, []int{3, 2, 0, 48}, Ahead},
		{"identical", []int{3, 2, 0, 48}, []int{3, 2, 0, 48}, Match},
		{"desired less specific", []int{3, 2, 0, 48}, []int{3, 2}, Match},
		{"desired less specific but ahead", []int{3, 1, 9, 99}, []int{3, 2}, Behind},
		{"running less specific", []int{3, 2}, []int{3, 2, 0, 48}, Indeterminate},
		{"first component decides", []int{4, 0}, []int{3, 99, 99}, Ahead},
		{"no zero padding", []int{3, 2, 0}, []int{3, 2, 0, 0}, Indeterminate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.running, tt.desired))
		})
	}
}

func TestComparisonString(t *testing.T) {
	assert.Equal(t, "behind", Behind.String())
	assert.Equal(t, "indeterminate", Comparison(42).String())
}
