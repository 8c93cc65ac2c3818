package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thruflo/tape/internal/logging"
	"github.com/thruflo/tape/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run a program every time its file changes",
	Long: `Run a program, then run it again each time the file is saved.

Failed runs are reported and watching continues. Each run reads its input
afresh from --input, or gets no input at all when --input is not set.
Press Ctrl-C to stop.

Example:
  tape watch hello.b
  tape watch --input data.txt --stats rot13.b`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&runInputPath, "input", "", "Read program input from this file on every run")
	watchCmd.Flags().BoolVar(&runShowStats, "stats", false, "Print executed instruction counts to stderr")
	watchCmd.Flags().BoolVar(&runNoJumpTable, "no-jump-table", false, "Scan for matching brackets at run time instead of precomputing them")
	watchCmd.Flags().BoolVar(&runUnbuffered, "unbuffered", false, "Write each output byte immediately")
	watchCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after every run")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	path := args[0]
	opts := newRunOptions(cfg)

	w, err := watch.New(path, cfg.DebounceInterval(), logging.Default())
	if err != nil {
		return err
	}

	runOnce := func() error {
		input, err := watchInput()
		if err != nil {
			return err
		}
		if c, ok := input.(io.Closer); ok {
			defer c.Close()
		}

		err = executeFile(cmd, path, input, opts)
		fmt.Fprintln(cmd.ErrOrStderr(), statusLine(path, err))
		return err
	}

	if err := runOnce(); err != nil {
		logging.Error("run failed", "program", path, "error", err)
	}

	return w.Watch(ctx, runOnce)
}

func watchInput() (io.Reader, error) {
	if runInputPath == "" {
		return strings.NewReader(""), nil
	}
	f, err := os.Open(runInputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return f, nil
}

func statusLine(path string, err error) string {
	if err != nil {
		return fmt.Sprintf("--- %s: failed: %v", path, err)
	}
	return fmt.Sprintf("--- %s: ok", path)
}
