// Package cemit prints a standalone C program that reproduces a
// Program's semantics as a switch statement, for the CLI's
// "generate-c" verb.
package cemit

import (
	"fmt"
	"io"

	"github.com/jkrafczyk/aoc2017/internal/program"
)

// Generate writes a self-contained C source file for p to w: a
// fixed-size tape, a run() function implementing one pass over
// checksum_delay steps via a switch on the enumeration-order state
// index, and a main() that times 25 benchmark iterations before a
// final checksum run.
func Generate(p program.Program, w io.Writer) error {
	stateIndex := make(map[program.Name]int, len(p.StateOrder))
	for i, name := range p.StateOrder {
		stateIndex[name] = i
	}

	fmt.Fprintln(w, "#include <time.h>")
	fmt.Fprintln(w, "#include <stdio.h>")
	fmt.Fprintln(w, "#include <string.h>")
	fmt.Fprintf(w, "char tape[%d];\n", p.ChecksumDelay)

	fmt.Fprintln(w, "void run() {")
	fmt.Fprintf(w, "  unsigned current_state = %d;\n", stateIndex[p.InitialState])
	fmt.Fprintln(w, "  unsigned long current_offset = 0;")
	fmt.Fprintf(w, "  for (unsigned long steps = 0; steps < %d; steps++) {\n", p.ChecksumDelay)
	fmt.Fprintln(w, "    switch(current_state) {")
	for _, name := range p.StateOrder {
		st := p.States[name]
		a0, a1 := st.Actions[0], st.Actions[1]
		fmt.Fprintf(w, "      case %d:\n", stateIndex[name])
		fmt.Fprintln(w, "        if (tape[current_offset] == 0) {")
		fmt.Fprintf(w, "          tape[current_offset] = %d;\n", a0.WriteValue)
		fmt.Fprintf(w, "          current_offset = (current_offset + sizeof(tape) + %d) %% sizeof(tape);\n", a0.MoveDirection)
		fmt.Fprintf(w, "          current_state = %d;\n", stateIndex[a0.NextState])
		fmt.Fprintln(w, "        } else {")
		fmt.Fprintf(w, "          tape[current_offset] = %d;\n", a1.WriteValue)
		fmt.Fprintf(w, "          current_offset = (current_offset + sizeof(tape) + %d) %% sizeof(tape);\n", a1.MoveDirection)
		fmt.Fprintf(w, "          current_state = %d;\n", stateIndex[a1.NextState])
		fmt.Fprintln(w, "        }")
		fmt.Fprintln(w, "        break;")
	}
	fmt.Fprintln(w, "    } //switch")
	fmt.Fprintln(w, "  } //for")
	fmt.Fprintln(w, "}; //run")

	totalSteps := uint64(p.ChecksumDelay) * 25

	fmt.Fprintln(w, "int main() {")
	fmt.Fprintln(w, "  //Benchmark:")
	fmt.Fprintln(w, "  clock_t start_ts = clock();")
	fmt.Fprintln(w, "  for (int i=0; i<25; i++) {")
	fmt.Fprintln(w, "    run();")
	fmt.Fprintln(w, "  }")
	fmt.Fprintln(w, "  clock_t end_ts = clock();")
	fmt.Fprintln(w, "  double duration = end_ts - start_ts;")
	fmt.Fprintln(w, "  duration /= CLOCKS_PER_SEC;")
	fmt.Fprintln(w, "  duration *= 1000;")
	fmt.Fprintln(w, `  printf("Time per iteration: %lfms\n", duration/25);`)
	fmt.Fprintf(w, "  printf(\"Total executed steps: %d\\n\");\n", totalSteps)
	fmt.Fprintf(w, "  printf(\"%%lf steps/ms\\n%%lf us/steps\\n\", %d/ duration, 1000 * duration / %d);\n", totalSteps, totalSteps)
	fmt.Fprintln(w, "//Actual execution:")
	fmt.Fprintln(w, "    memset(tape, 0, sizeof(tape));")
	fmt.Fprintln(w, "    run();")
	fmt.Fprintln(w, "  unsigned checksum = 0;")
	fmt.Fprintln(w, "  for (unsigned long i=0; i<sizeof(tape); i++) {")
	fmt.Fprintln(w, "    checksum += tape[i];")
	fmt.Fprintln(w, "  } //for")
	fmt.Fprintln(w, `  printf("Checksum: %i\n", checksum);`)
	fmt.Fprintln(w, "  return 0;")
	fmt.Fprintln(w, "} //main")
	return nil
}
