package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/codalotl/filediff/internal/compare"
)

// Version is the filediff version. It is a var (not a const) so build tooling can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.1.0"

// In/Out/Err override standard I/O. If nil, defaults are used. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// UsageError indicates a user-facing mistake (exit code 2).
type UsageError struct {
	Message string
}

func (e UsageError) Error() string { return e.Message }

func usageErrorf(format string, args ...any) UsageError {
	return UsageError{Message: fmt.Sprintf(format, args...)}
}

// Run runs the CLI with args (typically you'd use os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil. Differences found without --abort-on-diff are still 0.
//   - 1 -> err != nil, but the structure of args is sound (ex: a file is missing, or differences were found with --abort-on-diff).
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// Note that in cases of errors, Run has already displayed an error message to opts.Err || Stderr. Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var errW io.Writer = os.Stderr
	if opts != nil {
		if opts.In != nil {
			in = opts.In
		}
		if opts.Out != nil {
			out = opts.Out
		}
		if opts.Err != nil {
			errW = opts.Err
		}
	}

	a := newApp()
	root := a.rootCommand()
	root.SetArgs(argv)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errW)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0, nil
	}

	code := exitCode(err)
	printError(errW, err, a.colorFor(errW))
	if code == 2 {
		fmt.Fprintf(errW, "Run '%s --help' for usage.\n", root.Name())
	}
	return code, err
}

func exitCode(err error) int {
	var usage UsageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

func printError(w io.Writer, err error, enabled bool) {
	label := color.New(color.FgRed, color.Bold)
	if enabled {
		label.EnableColor()
	} else {
		label.DisableColor()
	}

	var abort *compare.AbortError
	if errors.As(err, &abort) {
		label.Fprint(w, "FAIL")
	} else {
		label.Fprint(w, "error")
	}
	fmt.Fprintf(w, ": %v\n", err)
}
