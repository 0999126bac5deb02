// Package machine implements the Processor/Runner from spec.md §4.6: a
// register file, bounds-checked memory, a decoded-instruction cache built
// once before Run, and the exception-prologue/privilege machinery that
// ties them together.
package machine

import (
	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
	"github.com/z33-toolchain/z33/zlog"
)

type cacheSlot struct {
	instruction isa.Instruction
	valid       bool
}

// StepResult is one Step's outcome, mirroring spec.md §4.6's
// {Continue, Reset, Exception} trichotomy.
type StepResult int

const (
	StepContinue StepResult = iota
	StepReset
	StepException
)

// CPU is one processor instance: its register file, memory, and the
// instruction cache built lazily before Run.
type CPU struct {
	Memory    *Memory
	Registers *RegisterFile
	variation varcfg.Variation

	cache []cacheSlot

	// Trace, when non-nil, receives one entry per executed instruction —
	// the debug affordance described in SPEC_FULL.md's supplemented
	// features, mirroring the teacher's single-step debug idiom.
	Trace []TraceEntry
}

// NewCPU builds a CPU with zeroed memory and registers sized for v.
func NewCPU(v varcfg.Variation) *CPU {
	return &CPU{
		Memory:    NewMemory(v.MemoryWords),
		Registers: NewRegisterFile(v),
		variation: v,
	}
}

// buildCache decodes every address in memory once, per spec.md §4.6 step 2.
// A failed read or decode at an address simply leaves that slot empty.
func (c *CPU) buildCache() {
	n := c.Memory.Len()
	c.cache = make([]cacheSlot, n)
	for i := uint32(0); i < n; i++ {
		hi, lo, err := c.Memory.ReadWords(i)
		if err != nil {
			continue
		}
		in, ok := isa.DecodeWords(hi, lo)
		if !ok {
			continue
		}
		c.cache[i] = cacheSlot{instruction: in, valid: true}
	}
}

func (c *CPU) resetRegisters() {
	for _, r := range c.variation.Registers {
		c.Registers.WriteRaw(r.Code, 0)
	}
}

// raiseException runs the exception prologue from spec.md §4.6: save
// pc/sr/event-code to the reserved words, enter supervisor mode, and
// vector to address 200. A write failure during the prologue itself is a
// fatal abort, not a re-entrant exception.
func (c *CPU) raiseException(exc *Exception) (StepResult, error) {
	pc := c.Registers.ReadRaw(varcfg.RegPC)
	sr := c.Registers.ReadRaw(varcfg.RegSR)

	if err := c.Memory.Write(varcfg.SavedPCAddr, pc); err != nil {
		return StepException, &FatalError{Cause: err}
	}
	if err := c.Memory.Write(varcfg.SavedSRAddr, sr); err != nil {
		return StepException, &FatalError{Cause: err}
	}
	if err := c.Memory.Write(varcfg.EventCodeAddr, uint32(exc.Code)); err != nil {
		return StepException, &FatalError{Cause: err}
	}

	c.Registers.SetFlag(FlagSupervisor, true)
	c.Registers.WriteRaw(varcfg.RegPC, varcfg.ExceptionVector)
	return StepException, exc
}

// Step executes exactly one instruction at the current pc.
func (c *CPU) Step() (StepResult, error) {
	pc := c.Registers.ReadRaw(varcfg.RegPC)

	if pc >= uint32(len(c.cache)) || !c.cache[pc].valid {
		return c.raiseException(&Exception{Code: InvalidInstruction})
	}
	in := c.cache[pc].instruction

	info, ok := isa.Lookup(in.Op)
	if !ok {
		return c.raiseException(&Exception{Code: InvalidInstruction})
	}
	if info.IsPrivileged && !c.Registers.supervisor() {
		return c.raiseException(&Exception{Code: PrivilegedInstruction})
	}

	if c.Trace != nil {
		c.Trace = append(c.Trace, TraceEntry{PC: pc, Instruction: in})
	}

	if err := c.exec(in); err != nil {
		if exc, ok := err.(*Exception); ok {
			return c.raiseException(exc)
		}
		return StepContinue, err
	}

	if in.Op == isa.OpReset {
		c.resetRegisters()
		return StepReset, nil
	}

	if newPC := c.Registers.ReadRaw(varcfg.RegPC); newPC == pc {
		c.Registers.WriteRaw(varcfg.RegPC, pc+2)
	}
	return StepContinue, nil
}

// Run decodes the instruction cache and executes until a `reset`
// instruction or a fatal error terminates the loop, per spec.md §4.6.
func (c *CPU) Run() error {
	log := zlog.Component("machine")
	c.buildCache()
	c.Registers.WriteRaw(varcfg.RegPC, 0)

	for {
		result, err := c.Step()
		switch result {
		case StepReset:
			log.Debug("processor reset, halting run")
			return nil
		case StepException:
			if fatal, ok := err.(*FatalError); ok {
				log.WithError(fatal).Error("fatal error servicing exception, aborting run")
				return fatal
			}
			continue
		default:
			if err != nil {
				return err
			}
		}
	}
}
