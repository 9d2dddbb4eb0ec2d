// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package blkstat

import (
	"github.com/cobaltcore-dev/hostcheck/pkg/checks/result"
)

// dimensions in the order of Thresholds and Rates values
var dimensions = [3]string{"iops", "read", "write"}

// Evaluation is the severity of a set of rates and the dimensions that
// exceeded the limit of that severity.
type Evaluation struct {
	State    result.State
	Exceeded []string
}

// Evaluate compares every dimension against the critical limits first and the
// warning limits second. A dimension exceeds a limit only when strictly above
// it.
func Evaluate(r Rates, warning, critical Thresholds) Evaluation {
	if dims := exceeded(r, critical); len(dims) > 0 {
		return Evaluation{State: result.Critical, Exceeded: dims}
	}
	if dims := exceeded(r, warning); len(dims) > 0 {
		return Evaluation{State: result.Warning, Exceeded: dims}
	}
	return Evaluation{State: result.OK}
}

func exceeded(r Rates, limits Thresholds) []string {
	var dims []string
	measured, limit := r.values(), limits.values()
	for i := range dimensions {
		if measured[i] > limit[i] {
			dims = append(dims, dimensions[i])
		}
	}
	return dims
}
