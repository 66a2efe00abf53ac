package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codalotl/filediff/internal/compare"
	"github.com/codalotl/filediff/internal/logging"
	"github.com/codalotl/filediff/internal/report"
	"github.com/codalotl/filediff/internal/source"
)

// app holds the state shared by one invocation's commands.
type app struct {
	v *viper.Viper
}

func newApp() *app {
	return &app{v: newViper()}
}

const compareLong = `Compare text sources line by line and report the differences.

Sources are given as ORIGINAL REVISED pairs. Each may be a path, a file:// URI, or an
http(s):// URI. Alternatively (or additionally), every file under --original-dir that
matches --include and not --exclude is compared with the file at the same relative path
under --revised-dir.

Settings may also come from a config file (--config, or ./filediff.yaml) and from
FILEDIFF_* environment variables, ex: FILEDIFF_ABORT_ON_DIFF=true. Flags win over the
environment, which wins over the config file.

Finding differences is not a failure unless --abort-on-diff is set.`

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "filediff",
		Short:         "Compare text files and URIs line by line",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			if err := readConfigFile(a.v); err != nil {
				return err
			}
			return checkColorMode(a.v.GetString(keyColor))
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return UsageError{Message: err.Error()}
	})
	root.CompletionOptions.DisableDefaultCmd = true
	addSettingFlags(root.PersistentFlags())

	root.AddCommand(a.compareCommand(), a.versionCommand())
	return root
}

func (a *app) compareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [ORIGINAL REVISED]...",
		Short: "Compare sources and report differences",
		Long:  compareLong,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args)%2 != 0 {
				return usageErrorf("sources must be given in ORIGINAL REVISED pairs (got %d)", len(args))
			}
			return nil
		},
		RunE: a.runCompare,
	}
	addFileSetFlags(cmd.Flags())
	return cmd
}

func (a *app) runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := compareConfig(a.v, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format, opts, err := a.reportFormat(out)
	if err != nil {
		return err
	}
	reporter, err := report.New(format, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Out:   cmd.ErrOrStderr(),
		Level: a.v.GetString(keyLogLevel),
		Color: a.colorFor(cmd.ErrOrStderr()),
	})
	if err != nil {
		return UsageError{Message: err.Error()}
	}
	if path := a.v.ConfigFileUsed(); path != "" {
		logger.WithField("path", path).Debug("using config file")
	}

	comparer := compare.New(cfg, source.New(cfg.SourceOptions()), reporter, out, logger)
	outcome, err := comparer.Run(cmd.Context())
	if err != nil {
		return err
	}
	if err := compare.Decide(outcome.DiffFound, cfg.AbortOnDiff); err != nil {
		return err
	}
	if outcome.DiffFound {
		logger.Warnf("Differences found; not failing because %s is off", keyAbortOnDiff)
	}
	return nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the filediff version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "filediff %s\n", Version)
			return err
		},
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}
