package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/codalotl/linediff/internal/simplelogger"
)

// Version is the linediff version. It is a var (not a const) so build tooling can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.1.0"

// In/Out/Err override standard I/O. If nil, defaults are used. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run runs the CLI with args (typically you'd use os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any. Like diff(1):
//   - 0 -> err == nil, and compared inputs are equal.
//   - 1 -> compared inputs differ (err == nil), or err != nil but the structure of args is sound.
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// Note that in cases of errors, Run has already displayed an error message to opts.Err || Stderr. Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := []string{}
	if len(args) > 0 {
		argv = args[1:]
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

	logger, closeLog := simplelogger.New()
	defer closeLog()

	state := &runState{logger: logger}
	root := newRootCommand(state)
	root.SetArgs(argv)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errW)

	if err := root.Execute(); err != nil {
		code := 1
		var uerr usageError
		if !state.started || errors.As(err, &uerr) {
			code = 2
		}
		fmt.Fprintf(errW, "linediff: %v\n", err)
		if code == 2 {
			fmt.Fprintln(errW, "Run 'linediff --help' for usage.")
		}
		logger.Debug("cli: command failed", zap.Error(err), zap.Int("exitCode", code))
		return code, err
	}

	if state.differences {
		return 1, nil
	}
	return 0, nil
}

// usageError marks misuse of the CLI (exit code 2).
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }
