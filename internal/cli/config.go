package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/codalotl/filediff/internal/compare"
	"github.com/codalotl/filediff/internal/report"
	"github.com/codalotl/filediff/internal/source"
)

// EnvPrefix prefixes environment variables that override settings (ex: FILEDIFF_ABORT_ON_DIFF=true).
const EnvPrefix = "FILEDIFF"

// Setting keys. Each is a flag name, a config file key, and (upper-cased, with "-" as "_") an environment variable suffix.
const (
	keyConfig           = "config"
	keyAbortOnDiff      = "abort-on-diff"
	keyRemoveEmptyLines = "remove-empty-lines"
	keyConnectTimeout   = "connect-timeout"
	keyReadTimeout      = "read-timeout"
	keySkip             = "skip"
	keyFormat           = "format"
	keyColor            = "color"
	keyContext          = "context"
	keyWidth            = "width"
	keyConcurrency      = "concurrency"
	keyLogLevel         = "log-level"
	keyOriginalDir      = "original-dir"
	keyInclude          = "include"
	keyExclude          = "exclude"
	keyRevisedDir       = "revised-dir"

	// Config-file only.
	keyOriginals = "originals"
	keyReviseds  = "reviseds"
	keyFileSets  = "file-sets"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// defaultConfigName is looked up (as filediff.yaml, filediff.json, filediff.toml, ...) in the working directory when --config is not given.
const defaultConfigName = "filediff"

const fallbackWidth = 120

func addSettingFlags(flags *pflag.FlagSet) {
	defaults := compare.DefaultConfig()

	flags.String(keyConfig, "", "config file (default: ./filediff.yaml if present)")
	flags.Bool(keyAbortOnDiff, defaults.AbortOnDiff, "exit with status 1 if any differences are found")
	flags.Bool(keyRemoveEmptyLines, defaults.RemoveEmptyLines, "ignore lines that are empty or only whitespace")
	flags.Int(keyConnectTimeout, int(defaults.ConnectTimeout/time.Millisecond), "connect timeout for remote sources, in milliseconds (0 = none)")
	flags.Int(keyReadTimeout, int(defaults.ReadTimeout/time.Millisecond), "read timeout for remote sources, in milliseconds (0 = none)")
	flags.Bool(keySkip, defaults.Skip, "skip comparing entirely")
	flags.String(keyFormat, string(report.FormatText), "report format: text, unified, pretty, side-by-side")
	flags.String(keyColor, colorAuto, "colorize output: auto, always, never")
	flags.Int(keyContext, report.DefaultOptions.Context, "unchanged lines shown around each change")
	flags.Int(keyWidth, 0, "total width for side-by-side (0 = terminal width)")
	flags.Int(keyConcurrency, 0, "pairs compared at once (0 = based on CPUs)")
	flags.String(keyLogLevel, "info", "log level: debug, info, warn, error")
}

func addFileSetFlags(flags *pflag.FlagSet) {
	flags.String(keyOriginalDir, "", "directory of original files to compare")
	flags.StringArray(keyInclude, nil, "include pattern within --original-dir (repeatable; default **)")
	flags.StringArray(keyExclude, nil, "exclude pattern within --original-dir (repeatable)")
	flags.String(keyRevisedDir, "", "directory holding the revised files")
}

// newViper returns a viper that reads FILEDIFF_* environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// readConfigFile reads the file named by --config, or ./filediff.* if it exists. A missing default file is not an error.
func readConfigFile(v *viper.Viper) error {
	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.AddConfigPath(".")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// compareConfig builds a compare.Config from v. args are positional ORIGINAL REVISED pairs; when empty, the config file's originals/reviseds are used.
func compareConfig(v *viper.Viper, args []string) (compare.Config, error) {
	cfg := compare.DefaultConfig()
	cfg.AbortOnDiff = v.GetBool(keyAbortOnDiff)
	cfg.RemoveEmptyLines = v.GetBool(keyRemoveEmptyLines)
	cfg.Skip = v.GetBool(keySkip)
	cfg.ConnectTimeout = time.Duration(v.GetInt(keyConnectTimeout)) * time.Millisecond
	cfg.ReadTimeout = time.Duration(v.GetInt(keyReadTimeout)) * time.Millisecond
	if n := v.GetInt(keyConcurrency); n != 0 {
		cfg.Concurrency = n
	}

	if len(args) > 0 {
		for i := 0; i+1 < len(args); i += 2 {
			cfg.Originals = append(cfg.Originals, args[i])
			cfg.Reviseds = append(cfg.Reviseds, args[i+1])
		}
	} else {
		cfg.Originals = v.GetStringSlice(keyOriginals)
		cfg.Reviseds = v.GetStringSlice(keyReviseds)
	}

	if v.IsSet(keyFileSets) {
		var sets []source.FileSet
		if err := v.UnmarshalKey(keyFileSets, &sets); err != nil {
			return compare.Config{}, fmt.Errorf("invalid %s: %w", keyFileSets, err)
		}
		cfg.FileSets = append(cfg.FileSets, sets...)
	}
	if dir := v.GetString(keyOriginalDir); dir != "" {
		cfg.FileSets = append(cfg.FileSets, source.FileSet{
			Directory: dir,
			Includes:  v.GetStringSlice(keyInclude),
			Excludes:  v.GetStringSlice(keyExclude),
		})
	}
	cfg.RevisedDir = v.GetString(keyRevisedDir)

	if !cfg.Skip && len(cfg.Originals) == 0 && len(cfg.FileSets) == 0 {
		return compare.Config{}, usageErrorf("nothing to compare: give ORIGINAL REVISED pairs or --%s/--%s", keyOriginalDir, keyRevisedDir)
	}
	if err := cfg.Validate(); err != nil {
		return compare.Config{}, UsageError{Message: err.Error()}
	}
	return cfg, nil
}

// reportFormat returns the format and rendering options for output written to w.
func (a *app) reportFormat(w io.Writer) (report.Format, report.Options, error) {
	format, err := report.ParseFormat(a.v.GetString(keyFormat))
	if err != nil {
		return "", report.Options{}, UsageError{Message: err.Error()}
	}
	opts := report.Options{
		Color:   a.colorFor(w),
		Context: a.v.GetInt(keyContext),
		Width:   a.v.GetInt(keyWidth),
	}
	if opts.Width <= 0 {
		opts.Width = terminalWidth(w)
	}
	return format, opts, nil
}

// colorFor reports whether output written to w should be colored. Unknown modes behave like auto.
func (a *app) colorFor(w io.Writer) bool {
	switch strings.ToLower(a.v.GetString(keyColor)) {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func checkColorMode(mode string) error {
	switch strings.ToLower(mode) {
	case colorAuto, colorAlways, colorNever:
		return nil
	}
	return usageErrorf("invalid --%s %q (want %s, %s, or %s)", keyColor, mode, colorAuto, colorAlways, colorNever)
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return fallbackWidth
}
