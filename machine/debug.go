package machine

import (
	"fmt"
	"strings"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

// TraceEntry records one executed instruction, mirroring the teacher's
// debugSym/printCurrentState single-step affordance restated over Z33's
// register/memory model (SPEC_FULL.md's supplemented debug features).
type TraceEntry struct {
	PC          uint32
	Instruction isa.Instruction
}

// DebugState is a point-in-time snapshot of the processor, formatted for a
// single-step debugger's status line.
type DebugState struct {
	PC        uint32
	Registers map[string]uint32
	Flags     map[string]bool
}

// State captures c's current registers and sr flags.
func (c *CPU) State() DebugState {
	regs := make(map[string]uint32, len(c.variation.Registers))
	for _, r := range c.variation.Registers {
		regs[r.Name] = c.Registers.ReadRaw(r.Code)
	}

	return DebugState{
		PC: c.Registers.ReadRaw(varcfg.RegPC),
		Registers: regs,
		Flags: map[string]bool{
			"carry":    c.Registers.Flag(FlagCarry),
			"zero":     c.Registers.Flag(FlagZero),
			"negative": c.Registers.Flag(FlagNegative),
			"overflow": c.Registers.Flag(FlagOverflow),
			"ienable":  c.Registers.Flag(FlagInterruptEnable),
			"supervisor": c.Registers.Flag(FlagSupervisor),
		},
	}
}

func (s DebugState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pc=%d", s.PC)
	for name, v := range s.Registers {
		fmt.Fprintf(&b, " %s=%d", name, v)
	}
	for name, set := range s.Flags {
		if set {
			fmt.Fprintf(&b, " %s", name)
		}
	}
	return b.String()
}

// FormatTrace renders the recorded Trace as one line per instruction,
// resolving register names against v.
func (c *CPU) FormatTrace(v varcfg.Variation) string {
	var b strings.Builder
	for _, entry := range c.Trace {
		fmt.Fprintf(&b, "%5d: %s\n", entry.PC, isa.Format(v, entry.Instruction))
	}
	return b.String()
}
