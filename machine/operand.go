package machine

import "github.com/z33-toolchain/z33/isa"

// resolveAddress computes the memory address named by a direct, indirect,
// or indexedIndirect operand.
func (c *CPU) resolveAddress(op isa.Operand) (uint32, error) {
	switch op.Kind {
	case isa.KindDirect:
		return op.Address, nil

	case isa.KindIndirect:
		base, err := c.Registers.Read(op.Register)
		if err != nil {
			return 0, err
		}
		return base, nil

	case isa.KindIndexedIndirect:
		base, err := c.Registers.Read(op.Register)
		if err != nil {
			return 0, err
		}
		return uint32(int64(base) + int64(op.Offset)), nil

	default:
		return 0, &Exception{Code: InvalidInstruction}
	}
}

// readValue returns the value named by any of the five addressing modes.
func (c *CPU) readValue(op isa.Operand) (uint32, error) {
	switch op.Kind {
	case isa.KindImmediate:
		return uint32(op.Immediate), nil

	case isa.KindRegister:
		return c.Registers.Read(op.Register)

	case isa.KindDirect, isa.KindIndirect, isa.KindIndexedIndirect:
		addr, err := c.resolveAddress(op)
		if err != nil {
			return 0, err
		}
		return c.Memory.Read(addr)

	default:
		return 0, &Exception{Code: InvalidInstruction}
	}
}

// writeValue writes v to the register or memory location named by op.
// Immediate operands cannot be write targets; callers only pass operands
// from positions the opcode table declares as register-or-memory.
func (c *CPU) writeValue(op isa.Operand, v uint32) error {
	switch op.Kind {
	case isa.KindRegister:
		return c.Registers.Write(op.Register, v)

	case isa.KindDirect, isa.KindIndirect, isa.KindIndexedIndirect:
		addr, err := c.resolveAddress(op)
		if err != nil {
			return err
		}
		return c.Memory.Write(addr, v)

	default:
		return &Exception{Code: InvalidInstruction}
	}
}
