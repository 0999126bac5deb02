package isa

import (
	"fmt"
	"strings"

	"github.com/z33-toolchain/z33/varcfg"
)

func registerName(v varcfg.Variation, code uint8) string {
	if r, ok := v.RegisterByCode(code); ok {
		return r.Name
	}
	return fmt.Sprintf("r%d", code)
}

// FormatOperand renders op in the assembly syntax from spec.md §4.3/§6,
// resolving register names against v.
func FormatOperand(v varcfg.Variation, op Operand) string {
	switch op.Kind {
	case KindImmediate:
		return fmt.Sprintf("%d", op.Immediate)
	case KindRegister:
		return "%" + registerName(v, op.Register)
	case KindDirect:
		return fmt.Sprintf("[%d]", int32(op.Address))
	case KindIndirect:
		return fmt.Sprintf("[%%%s]", registerName(v, op.Register))
	case KindIndexedIndirect:
		if op.Offset < 0 {
			return fmt.Sprintf("[%%%s - %d]", registerName(v, op.Register), -op.Offset)
		}
		return fmt.Sprintf("[%%%s + %d]", registerName(v, op.Register), op.Offset)
	default:
		return "?"
	}
}

// Format renders a full instruction in canonical assembly text, the
// inverse of the assembler's instruction parser and the basis for the
// parse/print round-trip property (spec.md §8).
func Format(v varcfg.Variation, in Instruction) string {
	info, ok := Lookup(in.Op)
	if !ok {
		return fmt.Sprintf("<invalid opcode %d>", in.Op)
	}

	var b strings.Builder
	b.WriteString(info.Name)

	switch in.Args.Arity {
	case ArityUnary:
		b.WriteByte(' ')
		b.WriteString(FormatOperand(v, in.Args.Lhs))
	case ArityBinary:
		b.WriteByte(' ')
		b.WriteString(FormatOperand(v, in.Args.Lhs))
		b.WriteString(", ")
		b.WriteString(FormatOperand(v, in.Args.Rhs))
	}

	return b.String()
}
