package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jkrafczyk/aoc2017/internal/executor"
	"github.com/jkrafczyk/aoc2017/internal/jitexec"
	"github.com/jkrafczyk/aoc2017/internal/parser"
)

var runCmd = &cobra.Command{
	Use:   "run program executor",
	Short: "Run a program to completion on one executor and print its checksum",
	Args:  cobra.ExactArgs(2),
	RunE:  runRun,
}

// dumper is implemented by every executor for -v diagnostics; it is not
// part of the executor.Executor interface since nothing besides the CLI
// needs it.
type dumper interface {
	DumpState() string
}

func runRun(cmd *cobra.Command, args []string) error {
	path, executorName := args[0], args[1]
	if err := validExecutor(executorName); err != nil {
		return err
	}

	p, err := parser.Load(path)
	if err != nil {
		return err
	}
	log.Debug(p.String())

	e, err := executor.Get(executorName, p)
	if err != nil {
		return err
	}
	if c, ok := e.(interface{ Close() error }); ok {
		defer c.Close()
	}

	if jitExec, ok := e.(*jitexec.Executor); ok {
		for _, line := range jitExec.Disassemble() {
			log.WithField("executor", executorName).Debug(line)
		}
	}

	log.WithFields(logrus.Fields{"program": path, "executor": executorName}).Info("executing program")
	start := time.Now()
	for i := uint32(0); i < p.ChecksumDelay; i++ {
		e.Step()
		if d, ok := e.(dumper); ok {
			log.Debug(d.DumpState())
		}
	}
	duration := time.Since(start)

	log.WithFields(logrus.Fields{
		"duration": duration,
		"checksum": e.DiagnosticChecksum(),
	}).Info("finished")
	fmt.Printf("Finished after %s\n", duration)
	fmt.Printf("Diagnostic checksum: %d\n", e.DiagnosticChecksum())
	return nil
}
