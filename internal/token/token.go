// Package token implements the day25 line tokenizer: one logical line in,
// one classified token out. It is strictly one-pass and forward-only.
package token

import "regexp"

// Kind identifies which of the seven grammar productions (or EOF/ERROR) a
// line matched.
type Kind int

const (
	Error Kind = iota
	EndOfStream
	InitialState
	ChecksumDelay
	StateDeclaration
	StateRequirement
	StateWrite
	StateMovement
	StateNext
)

// Token is one classified line: its kind, the single captured argument
// (if any), and enough provenance to build a useful parse error.
type Token struct {
	Kind    Kind
	Arg     string
	Line    int // 1-based
	RawText string
}

var emptyLine = regexp.MustCompile(`^\s*$`)

type expression struct {
	re   *regexp.Regexp
	kind Kind
}

// exprs is tried in order; the first match decides the token kind. Order
// matters only in that every regex here is mutually exclusive on a
// well-formed line, so in practice any order agrees with any other.
var exprs = []expression{
	{regexp.MustCompile(`^Begin in state ([A-Za-z0-9]+)\.$`), InitialState},
	{regexp.MustCompile(`^Perform a diagnostic checksum after ([0-9]+) steps\.$`), ChecksumDelay},
	{regexp.MustCompile(`^In state ([A-Za-z0-9]+):$`), StateDeclaration},
	{regexp.MustCompile(`^\s*If the current value is ([01]):$`), StateRequirement},
	{regexp.MustCompile(`^\s*- Write the value ([01])\.$`), StateWrite},
	{regexp.MustCompile(`^\s*- Move one slot to the (left|right)\.$`), StateMovement},
	{regexp.MustCompile(`^\s*- Continue with state ([A-Za-z0-9]+)\.$`), StateNext},
}

// Tokenizer reads lines from a fixed slice of source lines, skipping
// blank ones, and classifies each non-blank line in turn.
type Tokenizer struct {
	lines   []string
	pos     int // index of the next unread line
	lineNum int
	current Token
}

// New builds a Tokenizer over already-split source lines.
func New(lines []string) *Tokenizer {
	return &Tokenizer{lines: lines}
}

// Next advances the tokenizer past any blank lines and classifies the
// next non-blank one, or returns EndOfStream once the input is
// exhausted. There is no rewinding: callers must consume Current()
// before calling Next again if they need the value twice.
func (t *Tokenizer) Next() Token {
	for {
		if t.pos >= len(t.lines) {
			t.current = Token{Kind: EndOfStream, Line: t.lineNum}
			return t.current
		}
		line := t.lines[t.pos]
		t.pos++
		t.lineNum++
		if line == "" || emptyLine.MatchString(line) {
			continue
		}

		result := Token{Kind: Error, Line: t.lineNum, RawText: line}
		for _, e := range exprs {
			if m := e.re.FindStringSubmatch(line); m != nil {
				result.Kind = e.kind
				result.Arg = m[1]
				break
			}
		}
		t.current = result
		return t.current
	}
}

// Current returns whatever Next last produced.
func (t *Tokenizer) Current() Token {
	return t.current
}
