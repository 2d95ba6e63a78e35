// Command day25 loads a tape-machine program description and runs it
// with one of several interchangeable executors: a direct AST
// interpreter, a packed-bytecode interpreter, or a native x86-64 JIT.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/jkrafczyk/aoc2017/internal/astexec"
	_ "github.com/jkrafczyk/aoc2017/internal/bytecode"
	"github.com/jkrafczyk/aoc2017/internal/executor"
	_ "github.com/jkrafczyk/aoc2017/internal/jitexec"
)

var (
	verbose bool
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "day25",
	Short: "Run, benchmark, or transpile a day25 tape-machine program",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	log.SetOutput(os.Stderr)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-step state dumps")
	rootCmd.AddCommand(runCmd, benchmarkCmd, generateCCmd)
}

// validExecutor checks name against the registry and, on failure,
// returns an error listing the executors that are actually available —
// the Go-idiomatic replacement for the original CLI's usage() printout.
func validExecutor(name string) error {
	for _, n := range executor.Names() {
		if n == name {
			return nil
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "unknown executor %q\navailable executors:\n", name)
	for _, n := range executor.Names() {
		fmt.Fprintf(&b, " * %s\n", n)
	}
	return fmt.Errorf("%s", b.String())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
