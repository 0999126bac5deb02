package assemble

import (
	"fmt"
	"strings"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

// ItemKind tags one parsed statement (spec.md §4.3: "a label, a directive,
// a comment, or an instruction" — comments never survive parsing).
type ItemKind int

const (
	ItemLabel ItemKind = iota
	ItemInstruction
	ItemWord
	ItemAddr
	ItemSpace
	ItemString
)

// Item is one parsed line's worth of assembly: at most a label, and at
// most one instruction or directive.
type Item struct {
	Kind        ItemKind
	Line        int
	Label       string
	Instruction isa.Instruction
	Word        uint32
	Space       uint32
	Str         string
}

// ParseError reports a malformed statement at a 1-based source line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("assemble: line %d: %s", e.Line, e.Msg)
}

// stripComment truncates s at an unquoted "//", per spec.md §6.
func stripComment(s string) string {
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && (i == 0 || s[i-1] != '\\') {
			inString = !inString
			continue
		}
		if !inString && c == '/' && i+1 < len(s) && s[i+1] == '/' {
			return s[:i]
		}
	}
	return s
}

// Parse recognises every statement in src against the register file v.
func Parse(src string, v varcfg.Variation) ([]Item, error) {
	var items []Item

	lines := strings.Split(src, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}

		if m := reLabel.FindStringSubmatchIndex(line); m != nil {
			items = append(items, Item{Kind: ItemLabel, Line: lineNo, Label: line[m[2]:m[3]]})
			line = strings.TrimSpace(line[m[1]:])
			if line == "" {
				continue
			}
		}

		item, err := parseStatement(line, lineNo, v)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func parseStatement(line string, lineNo int, v varcfg.Variation) (Item, error) {
	switch {
	case strings.HasPrefix(line, ".word"):
		return parseWordDirective(line, lineNo, ItemWord)
	case strings.HasPrefix(line, ".addr"):
		return parseWordDirective(line, lineNo, ItemAddr)
	case strings.HasPrefix(line, ".space"):
		return parseSpaceDirective(line, lineNo)
	case strings.HasPrefix(line, ".string"):
		return parseStringDirective(line, lineNo)
	default:
		return parseInstructionStatement(line, lineNo, v)
	}
}

func parseWordDirective(line string, lineNo int, kind ItemKind) (Item, error) {
	rest := strings.TrimSpace(line[strings.IndexByte(line, ' ')+1:])
	val, err := parseIntLiteral(rest)
	if err != nil {
		return Item{}, &ParseError{Line: lineNo, Msg: err.Error()}
	}
	return Item{Kind: kind, Line: lineNo, Word: val}, nil
}

func parseSpaceDirective(line string, lineNo int) (Item, error) {
	rest := strings.TrimSpace(line[strings.IndexByte(line, ' ')+1:])
	val, err := parseIntLiteral(rest)
	if err != nil {
		return Item{}, &ParseError{Line: lineNo, Msg: err.Error()}
	}
	return Item{Kind: ItemSpace, Line: lineNo, Space: val}, nil
}

func parseStringDirective(line string, lineNo int) (Item, error) {
	rest := strings.TrimSpace(line[len(".string"):])
	str, _, err := parseQuotedString(rest)
	if err != nil {
		return Item{}, &ParseError{Line: lineNo, Msg: err.Error()}
	}
	return Item{Kind: ItemString, Line: lineNo, Str: str}, nil
}

func parseInstructionStatement(line string, lineNo int, v varcfg.Variation) (Item, error) {
	m := reMnemonic.FindString(line)
	if m == "" {
		return Item{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected mnemonic, got %q", line)}
	}

	info, ok := isa.LookupName(m)
	if !ok {
		return Item{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unknown mnemonic %q", m)}
	}

	rest := strings.TrimSpace(line[len(m):])
	in := isa.Instruction{Op: info.Opcode, Args: isa.Args{Arity: info.Arity}}

	switch info.Arity {
	case isa.ArityNone:
		if rest != "" {
			return Item{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("%s takes no operands, got %q", m, rest)}
		}

	case isa.ArityUnary:
		op, n, err := parseOperand(rest, v)
		if err != nil {
			return Item{}, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		if leftover := strings.TrimSpace(rest[n:]); leftover != "" {
			return Item{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unexpected trailing text %q", leftover)}
		}
		in.Args.Lhs = op

	case isa.ArityBinary:
		lhs, n, err := parseOperand(rest, v)
		if err != nil {
			return Item{}, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		rest = strings.TrimSpace(rest[n:])
		if !strings.HasPrefix(rest, ",") {
			return Item{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected ',' before %q", rest)}
		}
		rest = strings.TrimSpace(rest[1:])
		rhs, n2, err := parseOperand(rest, v)
		if err != nil {
			return Item{}, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		if leftover := strings.TrimSpace(rest[n2:]); leftover != "" {
			return Item{}, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unexpected trailing text %q", leftover)}
		}
		in.Args.Lhs = lhs
		in.Args.Rhs = rhs
	}

	if err := isa.Validate(in); err != nil {
		return Item{}, &ParseError{Line: lineNo, Msg: err.Error()}
	}

	return Item{Kind: ItemInstruction, Line: lineNo, Instruction: in}, nil
}
