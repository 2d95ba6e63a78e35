// Package parser folds a token.Tokenizer stream into a program.Program.
// It is a simple pushdown reader with no recursion and no error
// recovery: the first token that doesn't fit its expected position
// aborts the parse.
package parser

import (
	"fmt"
	"strconv"

	"github.com/jkrafczyk/aoc2017/internal/program"
	"github.com/jkrafczyk/aoc2017/internal/token"
)

// Error reports a parse failure with the 1-based source line it
// occurred on.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parser consumes tokens from src and builds up a program.Program.
type Parser struct {
	src *token.Tokenizer
	prg program.Program
}

// New creates a Parser over an already-constructed Tokenizer.
func New(src *token.Tokenizer) *Parser {
	return &Parser{
		src: src,
		prg: program.Program{States: map[string]program.State{}},
	}
}

// Parse reads the entire token stream and returns the resulting
// Program, or the first parse error encountered.
func (p *Parser) Parse() (program.Program, error) {
	initialSeen := false
	delaySeen := false

	for {
		tok := p.src.Next()

		switch tok.Kind {
		case token.EndOfStream:
			if !initialSeen {
				return program.Program{}, &Error{tok.Line, "Initial state not defined."}
			}
			if !delaySeen {
				return program.Program{}, &Error{tok.Line, "Delay until checksum not defined."}
			}
			return p.finalize(tok)

		case token.Error:
			return program.Program{}, &Error{tok.Line, "Invalid token."}

		case token.InitialState:
			if initialSeen {
				return program.Program{}, &Error{tok.Line, "Multiple initial state declarations."}
			}
			initialSeen = true
			p.prg.InitialState = tok.Arg

		case token.ChecksumDelay:
			if delaySeen {
				return program.Program{}, &Error{tok.Line, "Multiple checksum declarations."}
			}
			delaySeen = true
			n, err := strconv.ParseUint(tok.Arg, 10, 32)
			if err != nil {
				return program.Program{}, &Error{tok.Line, "Invalid checksum delay: " + err.Error()}
			}
			p.prg.ChecksumDelay = uint32(n)

		case token.StateDeclaration:
			if err := p.parseState(tok); err != nil {
				return program.Program{}, err
			}

		default:
			return program.Program{}, &Error{tok.Line, "Syntax error. Expected 'In State...' block."}
		}
	}
}

// parseState reads the two action blocks (slot 0 then slot 1) that must
// immediately follow a STATE_DECLARATION token.
func (p *Parser) parseState(decl token.Token) error {
	name := decl.Arg
	if _, exists := p.prg.States[name]; exists {
		return &Error{decl.Line, "Multiple definitions encountered for state " + name}
	}
	st := program.State{Name: name, Actions: map[int]program.StateAction{}}

	for slot := 0; slot <= 1; slot++ {
		req := p.src.Next()
		if req.Kind != token.StateRequirement {
			return &Error{req.Line, "Expected exactly two 'If the current value is...' blocks after state declaration."}
		}
		write := p.src.Next()
		if write.Kind != token.StateWrite {
			return &Error{write.Line, "Expected '- Write the value...' as first line in action block."}
		}
		move := p.src.Next()
		if move.Kind != token.StateMovement {
			return &Error{move.Line, "Expected '- Move one slot...' as second line in action block."}
		}
		next := p.src.Next()
		if next.Kind != token.StateNext {
			return &Error{next.Line, "Expected '- Continue with state...' as third line in action block."}
		}

		writeValue, _ := strconv.Atoi(write.Arg)
		direction := -1
		if move.Arg == "right" {
			direction = 1
		}
		st.Actions[slot] = program.StateAction{
			SlotCondition: slot,
			WriteValue:    writeValue,
			MoveDirection: direction,
			NextState:     next.Arg,
		}
	}

	p.prg.States[name] = st
	p.prg.StateOrder = append(p.prg.StateOrder, name)
	return nil
}

// Load reads a program source file from disk and parses it, composing
// program.ReadLines, token.New and Parse exactly as the original
// load_file() did.
func Load(path string) (program.Program, error) {
	lines, err := program.ReadLines(path)
	if err != nil {
		return program.Program{}, err
	}
	return New(token.New(lines)).Parse()
}

// finalize validates cross-references once the whole stream has been
// consumed: every next_state must resolve, and so must InitialState.
func (p *Parser) finalize(eof token.Token) (program.Program, error) {
	for _, name := range p.prg.StateOrder {
		st := p.prg.States[name]
		for _, action := range st.Actions {
			if _, ok := p.prg.States[action.NextState]; !ok {
				return program.Program{}, &Error{eof.Line,
					fmt.Sprintf("Actions for state %s refer to state %s, which is undefined", name, action.NextState)}
			}
		}
	}
	if _, ok := p.prg.States[p.prg.InitialState]; !ok {
		return program.Program{}, &Error{eof.Line,
			fmt.Sprintf("Program specifies initial state %s, which does not exist.", p.prg.InitialState)}
	}
	return p.prg, nil
}
