// Package assemble implements the spec's assembly parser: mnemonic and
// operand recognition, the `.word`/`.addr`/`.space`/`.string` directives,
// and label tracking, producing a flat word-addressed memory image.
package assemble

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

var (
	reImmediate       = regexp.MustCompile(`^(0[xX][0-9a-fA-F]+|0[bB][01]+|-?[0-9]+)`)
	reRegister        = regexp.MustCompile(`^%([A-Za-z_][A-Za-z0-9_]*)`)
	reDirect          = regexp.MustCompile(`^\[\s*(-?[0-9]+|0[xX][0-9a-fA-F]+|0[bB][01]+)\s*\]`)
	reIndirect        = regexp.MustCompile(`^\[\s*%([A-Za-z_][A-Za-z0-9_]*)\s*\]`)
	reIndexedIndirect = regexp.MustCompile(`^\[\s*%([A-Za-z_][A-Za-z0-9_]*)\s*([+-])\s*(-?[0-9]+|0[xX][0-9a-fA-F]+|0[bB][01]+)\s*\]`)
	reLabel           = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):`)
	reMnemonic        = regexp.MustCompile(`^[a-z]+`)
)

// parseIntLiteral parses a decimal (optionally signed), 0x, or 0b literal.
// Hex/binary literals fill the 32-bit operand as a raw bit pattern;
// decimal literals are range-checked as signed 32-bit (spec.md §9's
// resolved Open Question on 0x/0b semantics).
func parseIntLiteral(s string) (uint32, error) {
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex literal %q: %w", s, err)
		}
		return uint32(v), nil

	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		v, err := strconv.ParseUint(s[2:], 2, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid binary literal %q: %w", s, err)
		}
		return uint32(v), nil

	default:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal literal %q: %w", s, err)
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("literal %q out of 32-bit range", s)
		}
		return uint32(int32(v)), nil
	}
}

// parseOperand parses one operand from the start of s, returning the
// operand, how many bytes of s it consumed, and any error.
func parseOperand(s string, v varcfg.Variation) (isa.Operand, int, error) {
	if m := reIndexedIndirect.FindStringSubmatchIndex(s); m != nil {
		name := s[m[2]:m[3]]
		sign := s[m[4]:m[5]]
		numStr := s[m[6]:m[7]]

		reg, ok := v.RegisterByName(name)
		if !ok {
			return isa.Operand{}, 0, fmt.Errorf("unknown register %%%s", name)
		}
		n, err := parseIntLiteral(numStr)
		if err != nil {
			return isa.Operand{}, 0, err
		}
		off := int32(n)
		if sign == "-" {
			off = -off
		}
		return isa.IndexedIndirect(reg.Code, off), m[1], nil
	}

	if m := reIndirect.FindStringSubmatchIndex(s); m != nil {
		name := s[m[2]:m[3]]
		reg, ok := v.RegisterByName(name)
		if !ok {
			return isa.Operand{}, 0, fmt.Errorf("unknown register %%%s", name)
		}
		return isa.Indirect(reg.Code), m[1], nil
	}

	if m := reDirect.FindStringSubmatchIndex(s); m != nil {
		n, err := parseIntLiteral(s[m[2]:m[3]])
		if err != nil {
			return isa.Operand{}, 0, err
		}
		return isa.Direct(n), m[1], nil
	}

	if m := reRegister.FindStringSubmatchIndex(s); m != nil {
		name := s[m[2]:m[3]]
		reg, ok := v.RegisterByName(name)
		if !ok {
			return isa.Operand{}, 0, fmt.Errorf("unknown register %%%s", name)
		}
		return isa.Reg(reg.Code), m[1], nil
	}

	if m := reImmediate.FindStringIndex(s); m != nil {
		n, err := parseIntLiteral(s[m[0]:m[1]])
		if err != nil {
			return isa.Operand{}, 0, err
		}
		return isa.Imm(int32(n)), m[1], nil
	}

	return isa.Operand{}, 0, fmt.Errorf("expected operand, got %q", s)
}

// parseQuotedString decodes a "..." literal with escapes \" \n \r \t \0
// starting at s[0] == '"'. It returns the decoded content and the number
// of source bytes consumed, including both quotes.
func parseQuotedString(s string) (string, int, error) {
	if len(s) == 0 || s[0] != '"' {
		return "", 0, fmt.Errorf("expected string literal, got %q", s)
	}

	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '"' {
			return b.String(), i + 1, nil
		}
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '0':
				b.WriteByte(0)
			default:
				return "", 0, fmt.Errorf("invalid escape \\%c", s[i+1])
			}
			i += 2
			continue
		}
		b.WriteByte(c)
		i++
	}

	return "", 0, fmt.Errorf("unterminated string literal")
}
