// Package interpreter executes tape programs.
//
// Each call to Execute builds a fresh Machine: a zeroed 32768-cell tape,
// cell and instruction pointers at 0, and an empty loop-return stack. No
// state survives between calls, so one Interpreter can run any number of
// programs one after another.
//
// Cell arithmetic wraps modulo 256 and the cell pointer wraps modulo
// TapeSize. Running InputByte with no input left is an error rather than a
// silent zero.
package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/thruflo/tape/internal/logging"
	"github.com/thruflo/tape/internal/program"
)

// Interpreter runs programs against configured input and output streams.
type Interpreter struct {
	input     io.Reader
	output    io.Writer
	logger    *logging.Logger
	jumpTable bool
	buffered  bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithInput sets the stream InputByte reads from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(it *Interpreter) {
		it.input = r
	}
}

// WithOutput sets the stream OutputByte writes to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(it *Interpreter) {
		it.output = w
	}
}

// WithLogger sets the logger used for run tracing.
func WithLogger(l *logging.Logger) Option {
	return func(it *Interpreter) {
		it.logger = l
	}
}

// WithJumpTable controls whether loop targets are precomputed once per run
// (the default) or found by scanning forward at each zero-cell loop entry.
func WithJumpTable(enabled bool) Option {
	return func(it *Interpreter) {
		it.jumpTable = enabled
	}
}

// WithBufferedOutput wraps the output stream in a bufio.Writer that is
// flushed before each InputByte and when the run ends, whether or not it
// failed.
func WithBufferedOutput(enabled bool) Option {
	return func(it *Interpreter) {
		it.buffered = enabled
	}
}

// New creates an Interpreter.
func New(opts ...Option) *Interpreter {
	it := &Interpreter{
		input:     os.Stdin,
		output:    os.Stdout,
		logger:    logging.Default(),
		jumpTable: true,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Execute runs p to completion. See ExecuteWithStats.
func (it *Interpreter) Execute(p *program.Program) error {
	_, err := it.ExecuteWithStats(p)
	return err
}

// ExecuteWithStats runs p to completion on a fresh Machine and returns the
// instruction counts for the run. An unbalanced program is rejected with
// ErrUnbalancedProgram before anything is executed or written.
func (it *Interpreter) ExecuteWithStats(p *program.Program) (Stats, error) {
	var jumps []int
	var err error
	if it.jumpTable {
		jumps, err = program.JumpTable(p)
	} else {
		err = program.Validate(p)
	}
	if err != nil {
		it.logger.Debug("program rejected", "error", err)
		return Stats{}, fmt.Errorf("%w: %w", ErrUnbalancedProgram, err)
	}

	out := it.output
	var bw *bufio.Writer
	if it.buffered {
		bw = bufio.NewWriter(out)
		out = bw
	}

	m := NewMachine()
	start := time.Now()
	err = m.run(p, byteReader(it.input), out, jumps)

	if bw != nil {
		if flushErr := bw.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("failed to flush output: %w", flushErr)
		}
	}

	stats := m.Stats()
	it.logger.Debug("run finished",
		"instructions", p.Len(),
		"steps", stats.Steps,
		"duration", time.Since(start),
		"ok", err == nil,
	)
	return stats, err
}
