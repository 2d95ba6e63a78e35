package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jkrafczyk/aoc2017/internal/cemit"
	"github.com/jkrafczyk/aoc2017/internal/parser"
)

var generateCOutput string

var generateCCmd = &cobra.Command{
	Use:   "generate-c program",
	Short: "Emit a standalone C translation of a program as a switch-per-state interpreter",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateC,
}

func init() {
	generateCCmd.Flags().StringVarP(&generateCOutput, "output", "o", "generated-program.c", "output C source path")
}

func runGenerateC(cmd *cobra.Command, args []string) error {
	p, err := parser.Load(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(generateCOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	log.WithField("output", generateCOutput).Info("writing C translation")
	return cemit.Generate(p, f)
}
