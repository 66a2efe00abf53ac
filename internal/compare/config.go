package compare

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/codalotl/filediff/internal/source"
)

const (
	minConcurrency = 2
	maxConcurrency = 8

	DefaultConnectTimeout = 5000 * time.Millisecond
	DefaultReadTimeout    = 10000 * time.Millisecond
)

// Config says what to compare and how. There are two ways to name inputs, and both may be used at once:
//   - Originals[i] is compared with Reviseds[i]. Entries are paths, file:// URIs, or http(s):// URIs.
//   - Every file selected by a FileSet is compared with the file at the same relative path under RevisedDir.
type Config struct {
	Originals []string
	Reviseds  []string

	FileSets   []source.FileSet
	RevisedDir string

	// BaseDir resolves relative paths, including FileSet directories and RevisedDir. Empty means the working directory.
	BaseDir string

	AbortOnDiff      bool
	RemoveEmptyLines bool
	Skip             bool

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// Concurrency bounds how many pairs are fetched and diffed at once. Zero means DefaultConcurrency().
	Concurrency int
}

// DefaultConfig returns a Config with default settings and no inputs.
func DefaultConfig() Config {
	return Config{
		RemoveEmptyLines: true,
		ConnectTimeout:   DefaultConnectTimeout,
		ReadTimeout:      DefaultReadTimeout,
		Concurrency:      DefaultConcurrency(),
	}
}

// DefaultConcurrency returns the number of CPUs, clamped to [2, 8].
func DefaultConcurrency() int {
	return min(max(runtime.NumCPU(), minConcurrency), maxConcurrency)
}

// Validate checks cfg for settings that can never work.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.ConnectTimeout < 0 {
		errs = append(errs, fmt.Errorf("connect timeout must not be negative (got %s)", cfg.ConnectTimeout))
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("read timeout must not be negative (got %s)", cfg.ReadTimeout))
	}
	if cfg.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative (got %d)", cfg.Concurrency))
	}
	if len(cfg.FileSets) > 0 && cfg.RevisedDir == "" {
		errs = append(errs, errors.New("a revised directory is required to compare file sets"))
	}
	return errors.Join(errs...)
}

// SourceOptions returns the source.Options implied by cfg.
func (cfg Config) SourceOptions() source.Options {
	return source.Options{
		ConnectTimeout:   cfg.ConnectTimeout,
		ReadTimeout:      cfg.ReadTimeout,
		RemoveEmptyLines: cfg.RemoveEmptyLines,
	}
}
