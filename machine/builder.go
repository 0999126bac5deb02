package machine

import (
	"fmt"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

// Code writes each instruction in order starting at addr, two words per
// instruction, per spec.md §4.6 step 1.
func (c *CPU) Code(addr uint32, instructions ...isa.Instruction) error {
	for _, in := range instructions {
		hi, lo, ok := isa.EncodeWords(in)
		if !ok {
			return fmt.Errorf("machine: instruction does not fit any encoding: %+v", in)
		}
		if err := c.Memory.WriteWords(addr, hi, lo); err != nil {
			return err
		}
		addr += 2
	}
	return nil
}

// Rom is Code at address 0.
func (c *CPU) Rom(instructions ...isa.Instruction) error {
	return c.Code(0, instructions...)
}

// InterruptHandler is Code at the exception vector, address 200.
func (c *CPU) InterruptHandler(instructions ...isa.Instruction) error {
	return c.Code(varcfg.ExceptionVector, instructions...)
}

// LoadWords copies a flat word image — typically an assemble.Program's
// Words — into memory starting at addr.
func (c *CPU) LoadWords(addr uint32, words []uint32) error {
	for i, w := range words {
		if err := c.Memory.Write(addr+uint32(i), w); err != nil {
			return err
		}
	}
	return nil
}
