package machine

import (
	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

// exec performs one instruction's effect against c's registers and memory,
// per the opcode table in spec.md §4.4. It returns a *Exception for any of
// the runtime exceptions that table names; Step turns that into the
// exception-prologue vectoring.
func (c *CPU) exec(in isa.Instruction) error {
	args := in.Args

	switch in.Op {
	case isa.OpNop:
		return nil

	case isa.OpReset:
		return nil

	case isa.OpTrap:
		return &Exception{Code: Trap}

	case isa.OpRti:
		pc, err := c.Memory.Read(varcfg.SavedPCAddr)
		if err != nil {
			return err
		}
		sr, err := c.Memory.Read(varcfg.SavedSRAddr)
		if err != nil {
			return err
		}
		c.Registers.WriteRaw(varcfg.RegPC, pc)
		c.Registers.WriteRaw(varcfg.RegSR, sr)
		return nil

	case isa.OpRtn:
		sp := c.Registers.ReadRaw(varcfg.RegSP)
		addr, err := c.Memory.Read(sp)
		if err != nil {
			return err
		}
		c.Registers.WriteRaw(varcfg.RegPC, addr)
		return nil

	case isa.OpCall:
		src, err := c.readValue(args.Lhs)
		if err != nil {
			return err
		}
		return c.Registers.Write(varcfg.RegPC, src)

	case isa.OpJmp, isa.OpJeq, isa.OpJne, isa.OpJle, isa.OpJlt, isa.OpJge, isa.OpJgt:
		return c.execJump(in.Op, args.Lhs)

	case isa.OpAdd:
		return c.execArith(args, addFlagsOp)

	case isa.OpSub:
		return c.execArith(args, subFlagsOp)

	case isa.OpAnd:
		return c.execBitwise(args, func(x, y uint32) uint32 { return x & y })

	case isa.OpOr:
		return c.execBitwise(args, func(x, y uint32) uint32 { return x | y })

	case isa.OpXor:
		return c.execBitwise(args, func(x, y uint32) uint32 { return x ^ y })

	case isa.OpShl:
		return c.execBitwise(args, func(src, dst uint32) uint32 { return dst << (src & 31) })

	case isa.OpShr:
		return c.execBitwise(args, func(src, dst uint32) uint32 { return dst >> (src & 31) })

	case isa.OpNot:
		dst, err := c.readValue(args.Lhs)
		if err != nil {
			return err
		}
		result := ^dst
		zero, negative := bitwiseFlags(result)
		c.Registers.SetFlag(FlagZero, zero)
		c.Registers.SetFlag(FlagNegative, negative)
		return c.writeValue(args.Lhs, result)

	case isa.OpCmp:
		src, err := c.readValue(args.Lhs)
		if err != nil {
			return err
		}
		dst, err := c.readValue(args.Rhs)
		if err != nil {
			return err
		}
		_, carry, overflow, zero, negative := subResult(src, dst)
		c.setArithFlags(carry, overflow, zero, negative)
		return nil

	case isa.OpDiv:
		src, err := c.readValue(args.Lhs)
		if err != nil {
			return err
		}
		dst, err := c.readValue(args.Rhs)
		if err != nil {
			return err
		}
		if dst == 0 {
			return &Exception{Code: DivisionByZero}
		}
		result := uint32(int32(src) / int32(dst))
		zero, negative := bitwiseFlags(result)
		c.Registers.SetFlag(FlagZero, zero)
		c.Registers.SetFlag(FlagNegative, negative)
		return c.writeValue(args.Rhs, result)

	case isa.OpLd:
		src, err := c.readValue(args.Lhs)
		if err != nil {
			return err
		}
		return c.writeValue(args.Rhs, src)

	case isa.OpSt:
		src, err := c.readValue(args.Lhs)
		if err != nil {
			return err
		}
		return c.writeValue(args.Rhs, src)

	case isa.OpFas:
		old, err := c.readValue(args.Rhs)
		if err != nil {
			return err
		}
		if err := c.writeValue(args.Rhs, 1); err != nil {
			return err
		}
		return c.writeValue(args.Lhs, old)

	case isa.OpSwap:
		lhsVal, err := c.readValue(args.Lhs)
		if err != nil {
			return err
		}
		rhsVal, err := c.readValue(args.Rhs)
		if err != nil {
			return err
		}
		if err := c.writeValue(args.Lhs, rhsVal); err != nil {
			return err
		}
		return c.writeValue(args.Rhs, lhsVal)

	case isa.OpPush:
		src, err := c.readValue(args.Lhs)
		if err != nil {
			return err
		}
		sp := c.Registers.ReadRaw(varcfg.RegSP) - 1
		if err := c.Memory.Write(sp, src); err != nil {
			return err
		}
		c.Registers.WriteRaw(varcfg.RegSP, sp)
		return nil

	case isa.OpPop:
		sp := c.Registers.ReadRaw(varcfg.RegSP)
		val, err := c.Memory.Read(sp)
		if err != nil {
			return err
		}
		c.Registers.WriteRaw(varcfg.RegSP, sp+1)
		return c.writeValue(args.Lhs, val)

	default:
		return &Exception{Code: InvalidInstruction}
	}
}

// execJump evaluates a jump's flag condition and writes pc when it holds.
// jgt's literal table wording ("O==C and Z") would make it fire on exactly
// the cases jle already covers, leaving no condition partition between
// "greater than" and "less than or equal"; DESIGN.md records the corrected
// reading (O==C and not Z) used here.
func (c *CPU) execJump(op isa.Opcode, target isa.Operand) error {
	addr, err := c.readValue(target)
	if err != nil {
		return err
	}

	carry := c.Registers.Flag(FlagCarry)
	overflow := c.Registers.Flag(FlagOverflow)
	zero := c.Registers.Flag(FlagZero)
	sameOC := overflow == carry

	var take bool
	switch op {
	case isa.OpJmp:
		take = true
	case isa.OpJeq:
		take = zero
	case isa.OpJne:
		take = !zero
	case isa.OpJle:
		take = !sameOC || zero
	case isa.OpJlt:
		take = !sameOC
	case isa.OpJge:
		take = sameOC
	case isa.OpJgt:
		take = sameOC && !zero
	}

	if take {
		c.Registers.WriteRaw(varcfg.RegPC, addr)
	}
	return nil
}

func (c *CPU) setArithFlags(carry, overflow, zero, negative bool) {
	c.Registers.SetFlag(FlagCarry, carry)
	c.Registers.SetFlag(FlagOverflow, overflow)
	c.Registers.SetFlag(FlagZero, zero)
	c.Registers.SetFlag(FlagNegative, negative)
}

type arithOp func(src, dst uint32) (result uint32, carry, overflow, zero, negative bool)

func addFlagsOp(src, dst uint32) (uint32, bool, bool, bool, bool) {
	return addResult(src, dst)
}

func subFlagsOp(src, dst uint32) (uint32, bool, bool, bool, bool) {
	return subResult(dst, src)
}

// execArith handles add/sub: dst register, src any mode, full C/O/Z/N flags.
func (c *CPU) execArith(args isa.Args, op arithOp) error {
	src, err := c.readValue(args.Lhs)
	if err != nil {
		return err
	}
	dst, err := c.readValue(args.Rhs)
	if err != nil {
		return err
	}

	result, carry, overflow, zero, negative := op(src, dst)
	c.setArithFlags(carry, overflow, zero, negative)
	return c.writeValue(args.Rhs, result)
}

// execBitwise handles and/or/xor/shl/shr: dst register, src any mode,
// zero/negative flags only.
func (c *CPU) execBitwise(args isa.Args, op func(src, dst uint32) uint32) error {
	src, err := c.readValue(args.Lhs)
	if err != nil {
		return err
	}
	dst, err := c.readValue(args.Rhs)
	if err != nil {
		return err
	}

	result := op(src, dst)
	zero, negative := bitwiseFlags(result)
	c.Registers.SetFlag(FlagZero, zero)
	c.Registers.SetFlag(FlagNegative, negative)
	return c.writeValue(args.Rhs, result)
}
