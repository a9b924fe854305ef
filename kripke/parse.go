package kripke

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseFormula parses a textual temporal formula into a Formula tree.
//
// Grammar (lowest precedence first):
//
//	implies := or ( "→" | "->" ) implies
//	or      := and ( ("∨" | "|") and )*
//	and     := unary ( ("∧" | "&") unary )*
//	unary   := ("¬" | "!") unary
//	         | ("□" | "G") unary | ("◊" | "F") unary | "X" unary
//	         | ("EX"|"AX"|"EG"|"AG"|"EF"|"AF") unary
//	         | ("E" | "A") "[" implies "U" implies "]"
//	         | "(" implies ")" | atom
//
// Binary path operators U/R/W/M bind tighter than the boolean
// connectives and associate to the right.
func ParseFormula(input string) (Formula, error) {
	p := &parser{input: []rune(strings.TrimSpace(input))}
	if len(p.input) == 0 {
		return nil, fmt.Errorf("%w: empty formula", ErrParse)
	}
	f, err := p.implies()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("%w: trailing input at position %d: %q",
			ErrParse, p.pos, string(p.input[p.pos:]))
	}
	return f, nil
}

type parser struct {
	input []rune
	pos   int
	// bracketDepth > 0 while parsing E[...]/A[...] operands, where a
	// bare U belongs to the quantifier rather than to pathBinary.
	// Parentheses reset it, so E[(p U q) U r] parses.
	bracketDepth int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// eat consumes lit if the input starts with it here. Letter-based
// operators must not run into an identifier (so "AGree" is an atom, not
// AG applied to "ree").
func (p *parser) eat(lit string) bool {
	runes := []rune(lit)
	if p.pos+len(runes) > len(p.input) {
		return false
	}
	for i, r := range runes {
		if p.input[p.pos+i] != r {
			return false
		}
	}
	last := runes[len(runes)-1]
	if unicode.IsLetter(last) {
		next := p.pos + len(runes)
		if next < len(p.input) && isAtomRune(p.input[next]) {
			return false
		}
	}
	p.pos += len(runes)
	return true
}

func (p *parser) implies() (Formula, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.eat("→") || p.eat("->") {
		right, err := p.implies()
		if err != nil {
			return nil, err
		}
		return Implies{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) or() (Formula, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.eat("∨") && !p.eat("|") {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
}

func (p *parser) and() (Formula, error) {
	left, err := p.pathBinary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.eat("∧") && !p.eat("&") {
			return left, nil
		}
		right, err := p.pathBinary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
}

func (p *parser) pathBinary() (Formula, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	switch {
	case p.bracketDepth == 0 && p.eat("U"):
		right, err := p.pathBinary()
		if err != nil {
			return nil, err
		}
		return Until{Left: left, Right: right}, nil
	case p.eat("R"):
		right, err := p.pathBinary()
		if err != nil {
			return nil, err
		}
		return Release{Left: left, Right: right}, nil
	case p.eat("W"):
		right, err := p.pathBinary()
		if err != nil {
			return nil, err
		}
		return WeakUntil{Left: left, Right: right}, nil
	case p.eat("M"):
		right, err := p.pathBinary()
		if err != nil {
			return nil, err
		}
		return StrongRelease{Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) unary() (Formula, error) {
	p.skipSpace()
	switch {
	case p.eat("¬"), p.eat("!"):
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Not{Operand: inner}, nil
	case p.eat("EX"):
		return p.wrapUnary(func(f Formula) Formula { return ExistsNext{Operand: f} })
	case p.eat("AX"):
		return p.wrapUnary(func(f Formula) Formula { return ForallNext{Operand: f} })
	case p.eat("EG"):
		return p.wrapUnary(func(f Formula) Formula { return ExistsAlways{Operand: f} })
	case p.eat("AG"):
		return p.wrapUnary(func(f Formula) Formula { return ForallAlways{Operand: f} })
	case p.eat("EF"):
		return p.wrapUnary(func(f Formula) Formula { return ExistsEventually{Operand: f} })
	case p.eat("AF"):
		return p.wrapUnary(func(f Formula) Formula { return ForallEventually{Operand: f} })
	case p.peek() == 'E' && p.bracketFollows(1):
		p.pos++
		return p.quantifiedUntil(true)
	case p.peek() == 'A' && p.bracketFollows(1):
		p.pos++
		return p.quantifiedUntil(false)
	case p.eat("□"), p.eat("G"):
		return p.wrapUnary(func(f Formula) Formula { return Always{Operand: f} })
	case p.eat("◊"), p.eat("F"):
		return p.wrapUnary(func(f Formula) Formula { return Eventually{Operand: f} })
	case p.eat("X"):
		return p.wrapUnary(func(f Formula) Formula { return Next{Operand: f} })
	case p.eat("("):
		depth := p.bracketDepth
		p.bracketDepth = 0
		inner, err := p.implies()
		p.bracketDepth = depth
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.eat(")") {
			return nil, fmt.Errorf("%w: missing closing parenthesis at position %d", ErrParse, p.pos)
		}
		return inner, nil
	}
	return p.atom()
}

func (p *parser) wrapUnary(build func(Formula) Formula) (Formula, error) {
	inner, err := p.unary()
	if err != nil {
		return nil, err
	}
	return build(inner), nil
}

// bracketFollows reports whether a '[' follows at offset, skipping
// whitespace, which distinguishes E[φ U ψ] from an atom starting with E.
func (p *parser) bracketFollows(offset int) bool {
	i := p.pos + offset
	for i < len(p.input) && unicode.IsSpace(p.input[i]) {
		i++
	}
	return i < len(p.input) && p.input[i] == '['
}

func (p *parser) quantifiedUntil(exists bool) (Formula, error) {
	p.skipSpace()
	if !p.eat("[") {
		return nil, fmt.Errorf("%w: expected '[' at position %d", ErrParse, p.pos)
	}
	p.bracketDepth++
	left, err := p.implies()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eat("U") {
		return nil, fmt.Errorf("%w: expected 'U' at position %d", ErrParse, p.pos)
	}
	right, err := p.implies()
	if err != nil {
		return nil, err
	}
	p.bracketDepth--
	p.skipSpace()
	if !p.eat("]") {
		return nil, fmt.Errorf("%w: expected ']' at position %d", ErrParse, p.pos)
	}
	if exists {
		return ExistsUntil{Left: left, Right: right}, nil
	}
	return ForallUntil{Left: left, Right: right}, nil
}

func (p *parser) atom() (Formula, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && isAtomRune(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("%w: expected atom at position %d", ErrParse, start)
	}
	name := string(p.input[start:p.pos])
	switch name {
	case "true":
		return Not{Operand: Atomic{Name: "⊥"}}, nil
	case "false":
		return Atomic{Name: "⊥"}, nil
	}
	return Atomic{Name: name}, nil
}

func isAtomRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}
