package machine

import (
	"github.com/z33-toolchain/z33/varcfg"
)

// Status register flag bit positions (spec.md §3).
const (
	FlagCarry    uint32 = 1 << 0
	FlagZero     uint32 = 1 << 1
	FlagNegative uint32 = 1 << 2
	FlagOverflow uint32 = 1 << 3

	FlagInterruptEnable uint32 = 1 << 8
	FlagSupervisor      uint32 = 1 << 9
)

// RegisterFile holds one 32-bit value per register code declared by a
// Variation, plus the protection checks spec.md §4.4 requires in user mode.
type RegisterFile struct {
	variation varcfg.Variation
	values    map[uint8]uint32
}

// NewRegisterFile builds a zeroed register file for v.
func NewRegisterFile(v varcfg.Variation) *RegisterFile {
	values := make(map[uint8]uint32, len(v.Registers))
	for _, r := range v.Registers {
		values[r.Code] = 0
	}
	return &RegisterFile{variation: v, values: values}
}

func (rf *RegisterFile) spec(code uint8) (varcfg.RegisterSpec, bool) {
	return rf.variation.RegisterByCode(code)
}

// supervisor reports whether the sr register's supervisor bit is set.
func (rf *RegisterFile) supervisor() bool {
	return rf.values[varcfg.RegSR]&FlagSupervisor != 0
}

// Read returns register code's value, enforcing the read-protection bit.
func (rf *RegisterFile) Read(code uint8) (uint32, error) {
	spec, ok := rf.spec(code)
	if !ok {
		return 0, &Exception{Code: InvalidInstruction}
	}
	if spec.ReadProtected && !rf.supervisor() {
		return 0, &Exception{Code: PrivilegedInstruction}
	}
	return rf.values[code], nil
}

// Write sets register code's value, enforcing the write-protection bit.
func (rf *RegisterFile) Write(code uint8, v uint32) error {
	spec, ok := rf.spec(code)
	if !ok {
		return &Exception{Code: InvalidInstruction}
	}
	if spec.WriteProtected && !rf.supervisor() {
		return &Exception{Code: PrivilegedInstruction}
	}
	rf.values[code] = v
	return nil
}

// ReadRaw bypasses protection checks, used by the exception prologue to
// read sr/pc unconditionally and by debug inspection.
func (rf *RegisterFile) ReadRaw(code uint8) uint32 {
	return rf.values[code]
}

// WriteRaw bypasses protection checks, used by the exception prologue.
func (rf *RegisterFile) WriteRaw(code uint8, v uint32) {
	rf.values[code] = v
}

// SetFlag sets or clears one sr bit.
func (rf *RegisterFile) SetFlag(bit uint32, set bool) {
	sr := rf.values[varcfg.RegSR]
	if set {
		sr |= bit
	} else {
		sr &^= bit
	}
	rf.values[varcfg.RegSR] = sr
}

// Flag reports whether one sr bit is set.
func (rf *RegisterFile) Flag(bit uint32) bool {
	return rf.values[varcfg.RegSR]&bit != 0
}
