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

	"github.com/cobaltcore-dev/hostcheck/pkg/checks/statestore"
	"github.com/cobaltcore-dev/hostcheck/pkg/checks/validation"
)

const (
	DefaultDevice      = "sda"
	DefaultSysfsRoot   = "/sys"
	DefaultStateDir    = "/var/tmp"
	DefaultLockTimeout = 5 * time.Second

	SourceSysfs     = "sysfs"
	SourceDiskstats = "diskstats"
)

var ErrInvalidThresholds = errors.New("invalid thresholds")

// Unit selects the divisor applied to byte rates.
type Unit string

const (
	UnitBytes     Unit = "b"
	UnitKibibytes Unit = "k"
	UnitMebibytes Unit = "m"
)

func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case UnitBytes, UnitKibibytes, UnitMebibytes:
		return u, nil
	default:
		return "", fmt.Errorf("invalid unit %q, expected one of b, k, m", s)
	}
}

func (u Unit) Divisor() float64 {
	switch u {
	case UnitKibibytes:
		return 1024
	case UnitMebibytes:
		return 1024 * 1024
	default:
		return 1
	}
}

func (u Unit) Symbol() string {
	switch u {
	case UnitKibibytes:
		return "KiB/s"
	case UnitMebibytes:
		return "MiB/s"
	default:
		return "B/s"
	}
}

// Thresholds are the limits for one severity. Rates are in the configured unit.
type Thresholds struct {
	IOPS      float64 `validate:"gte=0"`
	ReadRate  float64 `validate:"gte=0"`
	WriteRate float64 `validate:"gte=0"`
}

// ParseThresholds parses "<iops>,<read>,<write>". All three components are
// required.
func ParseThresholds(s string) (Thresholds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Thresholds{}, fmt.Errorf("%w: %q must be <iops>,<read>,<write>", ErrInvalidThresholds, s)
	}

	var values [3]float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return Thresholds{}, fmt.Errorf("%w: %s limit is empty in %q", ErrInvalidThresholds, dimensions[i], s)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Thresholds{}, fmt.Errorf("%w: %s limit %q is not a number", ErrInvalidThresholds, dimensions[i], p)
		}
		values[i] = v
	}

	return Thresholds{IOPS: values[0], ReadRate: values[1], WriteRate: values[2]}, nil
}

func (t Thresholds) values() [3]float64 {
	return [3]float64{t.IOPS, t.ReadRate, t.WriteRate}
}

type Config struct {
	Device      string `validate:"required,devname"`
	Warning     Thresholds
	Critical    Thresholds
	Unit        Unit          `validate:"oneof=b k m"`
	Source      string        `validate:"oneof=sysfs diskstats"`
	SysfsRoot   string        `validate:"required"`
	StateDir    string        `validate:"required"`
	StatePrefix string
	LockTimeout time.Duration `validate:"gt=0"`
	TextfileDir string
}

func (c Config) Validate() error {
	return validation.Struct(c)
}

// InvertedLimits lists the dimensions whose warning limit is above the
// critical one. For those the warning state can never be reached.
func (c Config) InvertedLimits() []string {
	var dims []string
	warn, crit := c.Warning.values(), c.Critical.values()
	for i := range dimensions {
		if warn[i] > crit[i] {
			dims = append(dims, dimensions[i])
		}
	}
	return dims
}

// NewSource returns the counter source selected by the configuration.
func (c Config) NewSource() Source {
	if c.Source == SourceDiskstats {
		return DiskstatsSource{}
	}
	return SysfsSource{Root: c.SysfsRoot}
}

func (c Config) NewStore() *statestore.FileStore {
	return statestore.NewFileStore(c.StateDir, c.StatePrefix)
}
