// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cobaltcore-dev/hostcheck/pkg/checks/kernelversion"
)

func newKernelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kernel -c <desired version>",
		Short: "Check that the running kernel is not older than a desired release",
		Long: `Check the running kernel release against the desired one.

The running release is the second field of the version signature file
(/proc/version_signature on Ubuntu); on hosts without that file the uname
release is used. Releases like 3.2.0-48-generic are compared as 3.2.0.48,
component by component up to the shorter of the two versions.

A running kernel behind the desired release is CRITICAL; there is no WARNING.
A desired version less specific than the running one (3.2 against 3.2.0.48)
matches. A running version less specific than the desired one can not be
compared and is UNKNOWN.

Exit codes: 0 OK, 2 CRITICAL, 3 UNKNOWN.`,
		Example:     `  hostcheck kernel -c 3.2.0-48`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{labelAnnotation: kernelversion.Label},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := kernelConfig(cmd.Flags())
			if err != nil {
				return err
			}

			logger := checkLogger("kernel")
			logger.Info().
				Str("desired", cfg.Desired).
				Str("signature_file", cfg.SignatureFile).
				Str("textfile_dir", cfg.TextfileDir).
				Msg("configuration_loaded")

			check := kernelversion.NewCheck(cfg, cfg.NewSource())
			check.Logger = logger
			return emit(cmd, kernelversion.Label, check.Run())
		},
	}

	flags := cmd.Flags()
	flags.StringP("desired", "c", "", "Desired kernel release, digits, dots and dashes only (required)")
	flags.String("signature-file", kernelversion.DefaultSignatureFile, "Version signature file")
	flags.String("textfile-dir", "", "Write node_exporter textfile metrics to this directory")

	return cmd
}

func kernelConfig(flags *pflag.FlagSet) (kernelversion.Config, error) {
	v, err := envFlags(flags)
	if err != nil {
		return kernelversion.Config{}, err
	}

	cfg := kernelversion.Config{
		Desired:       v.GetString("desired"),
		SignatureFile: v.GetString("signature-file"),
		TextfileDir:   v.GetString("textfile-dir"),
	}
	if err := cfg.Validate(); err != nil {
		return kernelversion.Config{}, err
	}
	return cfg, nil
}
