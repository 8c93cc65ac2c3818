package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/thruflo/tape/internal/config"
	"github.com/thruflo/tape/internal/interpreter"
	"github.com/thruflo/tape/internal/logging"
	"github.com/thruflo/tape/internal/metrics"
	"github.com/thruflo/tape/internal/program"
)

var (
	runInputPath   string
	runShowStats   bool
	runNoJumpTable bool
	runUnbuffered  bool
	runMetricsFile string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a program",
	Long: `Load a program file, check its brackets and run it.

Program output is written to stdout byte for byte. Input is read from
stdin unless --input names a file. Running out of input while the
program is still reading is an error.

Example:
  tape run hello.b
  echo -n abc | tape run echo.b
  tape run --input data.txt --stats rot13.b`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runInputPath, "input", "", "Read program input from this file instead of stdin")
	runCmd.Flags().BoolVar(&runShowStats, "stats", false, "Print executed instruction counts to stderr")
	runCmd.Flags().BoolVar(&runNoJumpTable, "no-jump-table", false, "Scan for matching brackets at run time instead of precomputing them")
	runCmd.Flags().BoolVar(&runUnbuffered, "unbuffered", false, "Write each output byte immediately")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics-file", "", "Write Prometheus metrics for the run to this file")
	rootCmd.AddCommand(runCmd)
}

// runOptions are the settings shared by run and watch.
type runOptions struct {
	jumpTable   bool
	buffered    bool
	showStats   bool
	metricsFile string
	collector   *metrics.Collector
}

func newRunOptions(cfg *config.Config) runOptions {
	opts := runOptions{
		jumpTable:   cfg.JumpTable && !runNoJumpTable,
		buffered:    cfg.Output.Buffered && !runUnbuffered,
		showStats:   runShowStats,
		metricsFile: cfg.Metrics.Textfile,
	}
	if runMetricsFile != "" {
		opts.metricsFile = runMetricsFile
	}
	if cfg.Metrics.Enabled || opts.metricsFile != "" {
		opts.collector = metrics.NewCollector(nil)
	}
	return opts
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input := cmd.InOrStdin()
	if runInputPath != "" {
		f, err := os.Open(runInputPath)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		input = f
	}

	return executeFile(cmd, args[0], input, newRunOptions(cfg))
}

// executeFile loads and runs one program file.
func executeFile(cmd *cobra.Command, path string, input io.Reader, opts runOptions) error {
	p, err := program.Load(path)
	if err != nil {
		return err
	}

	logger := logging.WithFields(map[string]interface{}{
		"run":     uuid.New().String(),
		"program": path,
	})
	logger.Debug("program loaded", "instructions", p.Len())

	it := interpreter.New(
		interpreter.WithInput(input),
		interpreter.WithOutput(cmd.OutOrStdout()),
		interpreter.WithLogger(logger),
		interpreter.WithJumpTable(opts.jumpTable),
		interpreter.WithBufferedOutput(opts.buffered),
	)

	start := time.Now()
	stats, runErr := it.ExecuteWithStats(p)
	elapsed := time.Since(start)

	if opts.showStats {
		writeStats(cmd.ErrOrStderr(), stats, elapsed)
	}

	if opts.collector != nil {
		opts.collector.RecordRun(stats, runErr, elapsed)
		if opts.metricsFile != "" {
			if err := opts.collector.WriteTextfile(opts.metricsFile); err != nil {
				logger.Warn("failed to export metrics", "error", err)
			}
		}
	}

	if runErr != nil {
		logger.Debug("run failed", "result", metrics.Classify(runErr))
		return fmt.Errorf("%s: %w", path, runErr)
	}
	return nil
}

func writeStats(w io.Writer, stats interpreter.Stats, elapsed time.Duration) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nsteps: %d (%s)\n", stats.Steps, elapsed.Round(time.Microsecond))
	for i := 0; i < program.NumInstructions; i++ {
		ins := program.Instruction(i)
		fmt.Fprintf(&sb, "  %s %-20s %d\n", ins, ins.Name(), stats.Count(ins))
	}
	fmt.Fprint(w, sb.String())
}
