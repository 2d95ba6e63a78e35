package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jkrafczyk/aoc2017/internal/executor"
	"github.com/jkrafczyk/aoc2017/internal/parser"
	"github.com/jkrafczyk/aoc2017/internal/program"
)

var (
	benchDuration  time.Duration
	benchBlockSize uint32
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark program [executor]",
	Short: "Measure steps/ms for one executor, or every registered executor in turn",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBenchmark,
}

func init() {
	benchmarkCmd.Flags().DurationVar(&benchDuration, "duration", 20*time.Second, "how long to run each executor's benchmark loop")
	benchmarkCmd.Flags().Uint32Var(&benchBlockSize, "block-size", 100000, "steps executed between clock checks")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	p, err := parser.Load(args[0])
	if err != nil {
		return err
	}

	names := executor.Names()
	if len(args) == 2 {
		if err := validExecutor(args[1]); err != nil {
			return err
		}
		names = []string{args[1]}
	}

	for _, name := range names {
		if err := benchmarkOne(p, name); err != nil {
			return err
		}
	}
	return nil
}

// benchmarkOne steps name's executor in blocks of benchBlockSize,
// checking the clock only between blocks, for benchDuration. Block
// granularity keeps the syscall-free inner loop hot, matching the
// original benchmark()'s 100000-step block shape.
func benchmarkOne(p program.Program, name string) error {
	log.WithFields(logrus.Fields{"executor": name, "duration": benchDuration}).Info("benchmarking")

	e, err := executor.Get(name, p)
	if err != nil {
		return err
	}
	if c, ok := e.(interface{ Close() error }); ok {
		defer c.Close()
	}

	var blocks uint64
	start := time.Now()
	deadline := start.Add(benchDuration)
	for time.Now().Before(deadline) {
		for i := uint32(0); i < benchBlockSize; i++ {
			e.Step()
		}
		blocks++
	}
	duration := time.Since(start)
	steps := blocks * uint64(benchBlockSize)
	stepsPerMs := float64(steps) / float64(duration.Milliseconds())

	log.WithFields(logrus.Fields{
		"executor":     name,
		"duration":     duration,
		"steps":        steps,
		"steps_per_ms": stepsPerMs,
	}).Info("benchmark finished")
	fmt.Printf("%s: %d steps in %s (%.2f steps/ms, %.4f us/step)\n",
		name, steps, duration, stepsPerMs, 1000/stepsPerMs)
	return nil
}
