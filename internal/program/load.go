package program

import (
	"os"
	"strings"
)

// splitLines normalizes CRLF to LF and splits on LF: the tokenizer only
// ever needs whole lines, already split. Unlike bufio.Scanner, a
// trailing newline yields a final empty line, which the tokenizer skips
// as blank.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// ReadLines reads a program source file and splits it into lines, ready
// for a token.Tokenizer.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}
