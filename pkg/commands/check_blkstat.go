// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cobaltcore-dev/hostcheck/pkg/checks/blkstat"
)

func newBlkstatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blkstat -w <iops>,<read>,<write> -c <iops>,<read>,<write>",
		Short: "Check block device I/O rates",
		Long: `Check the I/O rates of one block device against warning and critical limits.

Counters are cumulative, so every run stores the device's stat record in the
state directory and compares the next run against it. The first run for a
device only records that baseline and reports UNKNOWN. A counter that went
backwards (reboot) or two runs within the same second also report UNKNOWN and
reset the baseline.

Limits are given as <iops>,<read>,<write>; read and write rates are in the unit
selected with -u (b bytes, k KiB, m MiB per second). A rate strictly above a
critical limit is CRITICAL, otherwise strictly above a warning limit is WARNING.

Exit codes: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN.`,
		Example: `  hostcheck blkstat -d sda -w 200,50,50 -c 400,100,100
  hostcheck blkstat -d nvme0n1 -u k -w 500,20000,20000 -c 1000,40000,40000 --textfile-dir /var/lib/node_exporter`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{labelAnnotation: blkstat.Label},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := blkstatConfig(cmd.Flags())
			if err != nil {
				return err
			}

			logger := checkLogger("blkstat")
			logger.Info().
				Str("device", cfg.Device).
				Interface("warning", cfg.Warning).
				Interface("critical", cfg.Critical).
				Str("unit", string(cfg.Unit)).
				Str("source", cfg.Source).
				Str("state_dir", cfg.StateDir).
				Str("state_prefix", cfg.StatePrefix).
				Dur("lock_timeout", cfg.LockTimeout).
				Str("textfile_dir", cfg.TextfileDir).
				Msg("configuration_loaded")

			check := blkstat.NewCheck(cfg, cfg.NewSource(), cfg.NewStore())
			check.Logger = logger
			return emit(cmd, blkstat.Label, check.Run(cmd.Context()))
		},
	}

	flags := cmd.Flags()
	flags.StringP("device", "d", blkstat.DefaultDevice, "Block device name as listed under /sys/block")
	flags.StringP("warning", "w", "", "Warning limits <iops>,<read>,<write> (required)")
	flags.StringP("critical", "c", "", "Critical limits <iops>,<read>,<write> (required)")
	flags.StringP("unit", "u", string(blkstat.UnitMebibytes), "Rate unit: b, k or m (bytes, KiB, MiB per second)")
	flags.String("source", blkstat.SourceSysfs, "Counter source: sysfs or diskstats")
	flags.String("sysfs-root", blkstat.DefaultSysfsRoot, "Mount point of sysfs")
	flags.String("state-dir", blkstat.DefaultStateDir, "Directory holding the per-device state")
	flags.String("state-prefix", filepath.Base(os.Args[0]), "Prefix of the state file names")
	flags.Duration("lock-timeout", blkstat.DefaultLockTimeout, "How long to wait for another run holding the device's state")
	flags.String("textfile-dir", "", "Write node_exporter textfile metrics to this directory")

	return cmd
}

func blkstatConfig(flags *pflag.FlagSet) (blkstat.Config, error) {
	v, err := envFlags(flags)
	if err != nil {
		return blkstat.Config{}, err
	}

	if v.GetString("warning") == "" || v.GetString("critical") == "" {
		return blkstat.Config{}, errors.New("both -w/--warning and -c/--critical limits are required")
	}
	warning, err := blkstat.ParseThresholds(v.GetString("warning"))
	if err != nil {
		return blkstat.Config{}, err
	}
	critical, err := blkstat.ParseThresholds(v.GetString("critical"))
	if err != nil {
		return blkstat.Config{}, err
	}
	unit, err := blkstat.ParseUnit(v.GetString("unit"))
	if err != nil {
		return blkstat.Config{}, err
	}

	cfg := blkstat.Config{
		Device:      v.GetString("device"),
		Warning:     warning,
		Critical:    critical,
		Unit:        unit,
		Source:      v.GetString("source"),
		SysfsRoot:   v.GetString("sysfs-root"),
		StateDir:    v.GetString("state-dir"),
		StatePrefix: v.GetString("state-prefix"),
		LockTimeout: v.GetDuration("lock-timeout"),
		TextfileDir: v.GetString("textfile-dir"),
	}
	if err := cfg.Validate(); err != nil {
		return blkstat.Config{}, err
	}
	return cfg, nil
}
