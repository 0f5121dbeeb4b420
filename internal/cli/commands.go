package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codalotl/linediff/internal/diff"
	"github.com/codalotl/linediff/internal/linediff"
)

// stdinName is the file argument that reads from standard input.
const stdinName = "-"

type runState struct {
	logger *zap.Logger

	// started is set once a command's RunE is entered. Errors before that come from parsing args and flags.
	started bool

	// differences is set when the diff command found differences.
	differences bool
}

func newRootCommand(state *runState) *cobra.Command {
	root := &cobra.Command{
		Use:           "linediff",
		Short:         "linediff compares text files line by line.",
		Long:          "linediff compares text files line by line, highlighting changed characters within changed lines.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       Version,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate("linediff {{.Version}}\n")
	registerConfigFlags(root.PersistentFlags())

	root.AddCommand(newDiffCommand(state), newConfigCommand(state), newVersionCommand(state))
	return root
}

func newDiffCommand(state *runState) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Print the differences between two files. Use - to read one of them from stdin.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state.started = true
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runDiff(cmd, state, cfg, args[0], args[1])
		},
	}
}

func newConfigCommand(state *runState) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state.started = true
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return writeConfigJSON(cmd.OutOrStdout(), cfg)
		},
	}
}

func newVersionCommand(state *runState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state.started = true
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "linediff %s\n", Version)
			return err
		},
	}
}

func runDiff(cmd *cobra.Command, state *runState, cfg Config, oldPath, newPath string) error {
	if oldPath == stdinName && newPath == stdinName {
		return usageError{errors.New("at most one input can be read from stdin")}
	}

	oldText, err := readInput(oldPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	newText, err := readInput(newPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	d := diff.DiffText(oldText, newText, linediff.Options{
		ShouldComputeCharChanges:     cfg.CharChanges,
		ShouldPostProcessCharChanges: cfg.PostProcess,
		ShouldIgnoreTrimWhitespace:   cfg.IgnoreTrimWhitespace,
		ShouldMakePrettyDiff:         cfg.Pretty,
		MaxComputationTime:           cfg.MaxTime,
		Logger:                       state.logger,
	})
	stats := d.Stats()
	state.logger.Debug("cli: diffed inputs",
		zap.String("old", oldPath),
		zap.String("new", newPath),
		zap.Int("insertions", stats.Insertions),
		zap.Int("deletions", stats.Deletions),
		zap.Bool("quitEarly", d.QuitEarly),
	)

	if !d.HasChanges() {
		return nil
	}
	state.differences = true

	out := cmd.OutOrStdout()
	color := useColor(cfg.Color, out)

	var rendered string
	switch cfg.Format {
	case formatPretty:
		if color {
			rendered = d.RenderPretty(oldPath, newPath, cfg.Context)
		} else {
			rendered = d.RenderPrettyNoColor(oldPath, newPath, cfg.Context)
		}
	case formatSideBySide:
		width := cfg.Width
		if width == 0 {
			width = outputWidth(out)
		}
		rendered = d.RenderSideBySide(color, oldPath, newPath, width, cfg.Context)
	default:
		rendered = d.RenderUnifiedDiff(color, oldPath, newPath, cfg.Context)
	}

	if _, err := fmt.Fprintln(out, rendered); err != nil {
		return err
	}
	if d.QuitEarly {
		fmt.Fprintln(cmd.ErrOrStderr(), "linediff: time budget exhausted; the diff may not be minimal")
	}
	return nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	var b []byte
	var err error
	if path == stdinName {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
