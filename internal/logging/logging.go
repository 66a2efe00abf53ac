// Package logging builds the leveled logger used by filediff.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// EnvLogFile names an environment variable holding a file path. When set, every log entry is also appended to that file.
const EnvLogFile = "FILEDIFF_LOG_FILE"

// Options configures New.
type Options struct {
	Out   io.Writer // defaults to os.Stderr
	Level string    // logrus level name; defaults to "info"
	Color bool      // colored level names on Out
}

// New returns a logger writing text entries to opts.Out. If EnvLogFile is set, entries are also appended to the file it names. An error is returned only for an
// unknown level.
func New(opts Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		level, err = logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		ForceColors:            opts.Color,
		DisableColors:          !opts.Color,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})

	if path := os.Getenv(EnvLogFile); path != "" {
		logger.AddHook(&fileHook{path: path})
	}

	return logger, nil
}

// fileHook appends entries to a file. Open/write/close is serialized so entries from concurrent goroutines don't interleave.
//
// If the path can't be opened as a file, the entry is dropped for the file but still written to the logger's main output.
type fileHook struct {
	path string
	mu   sync.Mutex
}

var fileFormatter = &logrus.TextFormatter{
	FullTimestamp: true,
	DisableColors: true,
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	b, err := fileFormatter.Format(entry)
	if err != nil {
		return nil
	}
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(bytes.Clone(b), '\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	defer f.Close()
	_, _ = f.Write(b)
	return nil
}
