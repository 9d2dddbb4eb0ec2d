// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cobaltcore-dev/hostcheck/pkg/checks/result"
)

const (
	envPrefix = "HOSTCHECK"

	// labelAnnotation holds the output label of a check command.
	labelAnnotation = "hostcheck/label"
	defaultLabel    = "HOSTCHECK"
)

// exitStatus carries a non-zero check result up to Execute after the result
// line has already been written.
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hostcheck",
		Short: "Nagios compatible host checks",
		Long: `hostcheck runs a single host check and reports it the way Nagios style
supervisors expect: one line "<LABEL> <STATE>: <message>" on stdout and the
state as exit code (0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN).

Every flag can also be set through the environment as HOSTCHECK_<FLAG>, with
dashes replaced by underscores (HOSTCHECK_STATE_DIR). Flags given on the
command line win over the environment.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := envFlags(cmd.Flags())
			if err != nil {
				return err
			}
			return setUpLogs(v.GetString("verbosity"), v.GetString("log-format"), cmd.ErrOrStderr())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringP("verbosity", "v", zerolog.WarnLevel.String(), "Log level (debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format on stderr (json, console)")

	rootCmd.AddCommand(newBlkstatCmd())
	rootCmd.AddCommand(newKernelCmd())

	return rootCmd
}

func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code. Errors
// that are not check results are usage errors and reported as UNKNOWN.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	var status *exitStatus
	if errors.As(err, &status) {
		return status.code
	}
	log.Debug().Err(err).Msg("usage error")
	return result.Emit(stdout, labelOf(cmd), result.FromError("", err))
}

func labelOf(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if label, ok := c.Annotations[labelAnnotation]; ok {
			return label
		}
	}
	return defaultLabel
}

// emit prints the result line and turns a non-OK state into an exitStatus.
func emit(cmd *cobra.Command, label string, res result.Result) error {
	if code := result.Emit(cmd.OutOrStdout(), label, res); code != 0 {
		return &exitStatus{code: code}
	}
	return nil
}

// envFlags layers HOSTCHECK_* environment variables between the flags that
// were set explicitly and the flag defaults.
func envFlags(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// checkLogger returns the global logger tagged with the check name and a run id
// so overlapping runs can be told apart.
func checkLogger(check string) zerolog.Logger {
	return log.With().
		Str("check", check).
		Str("run_id", uuid.NewString()).
		Logger()
}

// setUpLogs sets the log output and the log level
func setUpLogs(level, format string, out io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	case "console":
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format %q, expected json or console", format)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
