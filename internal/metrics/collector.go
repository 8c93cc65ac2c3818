// Package metrics records tape runs as Prometheus metrics.
//
// Metrics:
//   - tape_runs_total: completed runs by result
//   - tape_run_duration_seconds: wall time of each run
//   - tape_instructions_executed_total: executed instructions by kind
//
// tape is a short-lived CLI, so metrics are exported by writing the
// registry in text exposition format to a file (node_exporter textfile
// collector style) rather than by serving /metrics.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/thruflo/tape/internal/interpreter"
	"github.com/thruflo/tape/internal/program"
)

// Run results used as the "result" label.
const (
	ResultOK               = "ok"
	ResultUnbalanced       = "unbalanced"
	ResultUnmatchedLoopEnd = "unmatched_loop_end"
	ResultInputExhausted   = "input_exhausted"
	ResultError            = "error"
)

const namespace = "tape"

// Collector owns a registry and the run metrics registered in it.
type Collector struct {
	registry *prometheus.Registry

	runsTotal            *prometheus.CounterVec
	runDuration          prometheus.Histogram
	instructionsExecuted *prometheus.CounterVec
}

// NewCollector creates a collector. If registry is nil a new one is made.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of program runs by result",
			},
			[]string{"result"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of program runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
		),

		instructionsExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "instructions_executed_total",
				Help:      "Total number of executed instructions by kind",
			},
			[]string{"instruction"},
		),
	}

	registry.MustRegister(
		c.runsTotal,
		c.runDuration,
		c.instructionsExecuted,
	)

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRun records one finished run.
func (c *Collector) RecordRun(stats interpreter.Stats, err error, duration time.Duration) {
	c.runsTotal.WithLabelValues(Classify(err)).Inc()
	c.runDuration.Observe(duration.Seconds())

	for i := 0; i < program.NumInstructions; i++ {
		ins := program.Instruction(i)
		if n := stats.Count(ins); n > 0 {
			c.instructionsExecuted.WithLabelValues(ins.Name()).Add(float64(n))
		}
	}
}

// WriteTextfile writes the registry in text exposition format to path.
// The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Classify maps a run error to its result label.
func Classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, interpreter.ErrUnbalancedProgram):
		return ResultUnbalanced
	case errors.Is(err, interpreter.ErrUnmatchedLoopEnd):
		return ResultUnmatchedLoopEnd
	case errors.Is(err, interpreter.ErrInputExhausted):
		return ResultInputExhausted
	default:
		return ResultError
	}
}
