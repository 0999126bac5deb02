package isa

import "fmt"

// Opcode is the instruction's binary discriminant, 0–29 with 17 and the
// in/out pair reserved (spec.md §4.4, §9).
type Opcode uint8

const (
	OpAdd   Opcode = 0
	OpAnd   Opcode = 1
	OpCall  Opcode = 2
	OpCmp   Opcode = 3
	OpDiv   Opcode = 4
	OpFas   Opcode = 5
	OpJmp   Opcode = 6
	OpJeq   Opcode = 7
	OpJne   Opcode = 8
	OpJle   Opcode = 9
	OpJlt   Opcode = 10
	OpJge   Opcode = 11
	OpJgt   Opcode = 12
	OpLd    Opcode = 13
	OpNop   Opcode = 14
	OpNot   Opcode = 15
	OpOr    Opcode = 16
	OpPop   Opcode = 18
	OpPush  Opcode = 19
	OpReset Opcode = 20
	OpRti   Opcode = 21
	OpRtn   Opcode = 22
	OpShl   Opcode = 23
	OpShr   Opcode = 24
	OpSt    Opcode = 25
	OpSub   Opcode = 26
	OpSwap  Opcode = 27
	OpTrap  Opcode = 28
	OpXor   Opcode = 29
)

// Arity tags how many operands an instruction carries.
type Arity int

const (
	ArityNone Arity = iota
	ArityUnary
	ArityBinary
)

// Args holds an instruction's operands per its Arity. Lhs is the sole
// operand for ArityUnary; Lhs/Rhs are both meaningful for ArityBinary.
type Args struct {
	Arity Arity
	Lhs   Operand
	Rhs   Operand
}

// Instruction is one decoded or about-to-be-encoded program statement.
type Instruction struct {
	Op   Opcode
	Args Args
}

// Info describes an opcode's static shape: mnemonic, arity, which modes
// are accepted in each operand position, privilege, and the reserved
// payload-order flag from spec.md §4.5.
type Info struct {
	Name         string
	Opcode       Opcode
	Arity        Arity
	IsPrivileged bool
	Reversed     bool
	LhsModes     ModeSet
	RhsModes     ModeSet
}

var byOpcode = make(map[Opcode]Info, 27)
var byName = make(map[string]Info, 27)

func define(info Info) {
	byOpcode[info.Opcode] = info
	byName[info.Name] = info
}

func init() {
	define(Info{Name: "add", Opcode: OpAdd, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "and", Opcode: OpAnd, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "call", Opcode: OpCall, Arity: ArityUnary, LhsModes: ModeAll})
	define(Info{Name: "cmp", Opcode: OpCmp, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "div", Opcode: OpDiv, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "fas", Opcode: OpFas, Arity: ArityBinary, LhsModes: ModeMem, RhsModes: ModeRegister})
	define(Info{Name: "jmp", Opcode: OpJmp, Arity: ArityUnary, LhsModes: ModeAll})
	define(Info{Name: "jeq", Opcode: OpJeq, Arity: ArityUnary, LhsModes: ModeAll})
	define(Info{Name: "jne", Opcode: OpJne, Arity: ArityUnary, LhsModes: ModeAll})
	define(Info{Name: "jle", Opcode: OpJle, Arity: ArityUnary, LhsModes: ModeAll})
	define(Info{Name: "jlt", Opcode: OpJlt, Arity: ArityUnary, LhsModes: ModeAll})
	define(Info{Name: "jge", Opcode: OpJge, Arity: ArityUnary, LhsModes: ModeAll})
	define(Info{Name: "jgt", Opcode: OpJgt, Arity: ArityUnary, LhsModes: ModeAll})
	define(Info{Name: "ld", Opcode: OpLd, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "nop", Opcode: OpNop, Arity: ArityNone})
	define(Info{Name: "not", Opcode: OpNot, Arity: ArityUnary, LhsModes: ModeRegister})
	define(Info{Name: "or", Opcode: OpOr, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "pop", Opcode: OpPop, Arity: ArityUnary, LhsModes: ModeRegister})
	define(Info{Name: "push", Opcode: OpPush, Arity: ArityUnary, LhsModes: ModeImmOrReg})
	define(Info{Name: "reset", Opcode: OpReset, Arity: ArityNone})
	define(Info{Name: "rti", Opcode: OpRti, Arity: ArityNone, IsPrivileged: true})
	define(Info{Name: "rtn", Opcode: OpRtn, Arity: ArityNone})
	define(Info{Name: "shl", Opcode: OpShl, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "shr", Opcode: OpShr, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "st", Opcode: OpSt, Arity: ArityBinary, LhsModes: ModeRegister, RhsModes: ModeMem})
	define(Info{Name: "sub", Opcode: OpSub, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
	define(Info{Name: "swap", Opcode: OpSwap, Arity: ArityBinary, LhsModes: ModeRegOrMem, RhsModes: ModeRegister})
	define(Info{Name: "trap", Opcode: OpTrap, Arity: ArityNone})
	define(Info{Name: "xor", Opcode: OpXor, Arity: ArityBinary, LhsModes: ModeAll, RhsModes: ModeRegister})
}

// Lookup returns the static Info for an opcode.
func Lookup(op Opcode) (Info, bool) {
	info, ok := byOpcode[op]
	return info, ok
}

// LookupName returns the static Info for a mnemonic.
func LookupName(name string) (Info, bool) {
	info, ok := byName[name]
	return info, ok
}

// Validate checks an Instruction's Args against its opcode's declared
// shape: correct arity and an allowed mode in every populated position.
func Validate(in Instruction) error {
	info, ok := Lookup(in.Op)
	if !ok {
		return fmt.Errorf("isa: unknown opcode %d", in.Op)
	}
	if in.Args.Arity != info.Arity {
		return fmt.Errorf("isa: %s: expected arity %v, got %v", info.Name, info.Arity, in.Args.Arity)
	}
	switch info.Arity {
	case ArityUnary:
		if !info.LhsModes.Allows(in.Args.Lhs.Kind) {
			return fmt.Errorf("isa: %s: operand mode %s not allowed", info.Name, in.Args.Lhs.Kind)
		}
	case ArityBinary:
		if !info.LhsModes.Allows(in.Args.Lhs.Kind) {
			return fmt.Errorf("isa: %s: lhs mode %s not allowed", info.Name, in.Args.Lhs.Kind)
		}
		if !info.RhsModes.Allows(in.Args.Rhs.Kind) {
			return fmt.Errorf("isa: %s: rhs mode %s not allowed", info.Name, in.Args.Rhs.Kind)
		}
	}
	return nil
}
