package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

func newTestCPU() *CPU {
	return NewCPU(varcfg.Standard())
}

// TestAddScenario mirrors spec.md §8 scenario 1.
func TestAddScenario(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.Rom(isa.Instruction{
		Op:   isa.OpAdd,
		Args: isa.Args{Arity: isa.ArityBinary, Lhs: isa.Imm(3), Rhs: isa.Reg(varcfg.RegA)},
	}))
	c.Registers.WriteRaw(varcfg.RegA, 4)
	c.buildCache()

	result, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, StepContinue, result)

	assert.EqualValues(t, 7, c.Registers.ReadRaw(varcfg.RegA))
	assert.False(t, c.Registers.Flag(FlagCarry))
	assert.False(t, c.Registers.Flag(FlagZero))
	assert.False(t, c.Registers.Flag(FlagNegative))
	assert.False(t, c.Registers.Flag(FlagOverflow))
	assert.EqualValues(t, 2, c.Registers.ReadRaw(varcfg.RegPC))
}

// TestSubScenario mirrors spec.md §8 scenario 2.
func TestSubScenario(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.Rom(isa.Instruction{
		Op:   isa.OpSub,
		Args: isa.Args{Arity: isa.ArityBinary, Lhs: isa.Imm(1), Rhs: isa.Reg(varcfg.RegA)},
	}))
	c.Registers.WriteRaw(varcfg.RegA, 0)
	c.buildCache()

	_, err := c.Step()
	require.NoError(t, err)

	assert.EqualValues(t, 0xFFFFFFFF, c.Registers.ReadRaw(varcfg.RegA))
	assert.True(t, c.Registers.Flag(FlagCarry))
	assert.True(t, c.Registers.Flag(FlagNegative))
	assert.False(t, c.Registers.Flag(FlagZero))
	assert.False(t, c.Registers.Flag(FlagOverflow))
}

// TestDivisionByZeroScenario mirrors spec.md §8 scenario 3.
func TestDivisionByZeroScenario(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.Rom(
		isa.Instruction{Op: isa.OpLd, Args: isa.Args{Arity: isa.ArityBinary, Lhs: isa.Imm(0), Rhs: isa.Reg(varcfg.RegA)}},
		isa.Instruction{Op: isa.OpDiv, Args: isa.Args{Arity: isa.ArityBinary, Lhs: isa.Reg(varcfg.RegA), Rhs: isa.Reg(varcfg.RegA)}},
	))
	c.buildCache()

	_, err := c.Step()
	require.NoError(t, err)

	result, err := c.Step()
	assert.Equal(t, StepException, result)
	require.Error(t, err)

	eventCode, memErr := c.Memory.Read(varcfg.EventCodeAddr)
	require.NoError(t, memErr)
	assert.EqualValues(t, DivisionByZero, eventCode)
	assert.True(t, c.Registers.Flag(FlagSupervisor))
	assert.EqualValues(t, varcfg.ExceptionVector, c.Registers.ReadRaw(varcfg.RegPC))
}

// TestJgeLoopScenario mirrors spec.md §8 scenario 4: an iterative decrement
// loop that exits via jge once the compared register reaches the bound.
func TestJgeLoopScenario(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.Rom(
		isa.Instruction{Op: isa.OpLd, Args: isa.Args{Arity: isa.ArityBinary, Lhs: isa.Imm(5), Rhs: isa.Reg(varcfg.RegA)}},   // 0
		isa.Instruction{Op: isa.OpCmp, Args: isa.Args{Arity: isa.ArityBinary, Lhs: isa.Imm(1), Rhs: isa.Reg(varcfg.RegA)}}, // 2 (loop top)
		isa.Instruction{Op: isa.OpJge, Args: isa.Args{Arity: isa.ArityUnary, Lhs: isa.Direct(10)}},                         // 4
		isa.Instruction{Op: isa.OpSub, Args: isa.Args{Arity: isa.ArityBinary, Lhs: isa.Imm(1), Rhs: isa.Reg(varcfg.RegA)}}, // 6
		isa.Instruction{Op: isa.OpJmp, Args: isa.Args{Arity: isa.ArityUnary, Lhs: isa.Direct(2)}},                          // 8
		isa.Instruction{Op: isa.OpNop, Args: isa.Args{Arity: isa.ArityNone}},                                               // 10
	))
	c.buildCache()

	seenValues := []uint32{}
	for i := 0; i < 100; i++ {
		if c.Registers.ReadRaw(varcfg.RegPC) == 2 {
			seenValues = append(seenValues, c.Registers.ReadRaw(varcfg.RegA))
		}
		result, err := c.Step()
		require.NoError(t, err)
		if c.Registers.ReadRaw(varcfg.RegPC) == 10 && result == StepContinue {
			break
		}
	}

	assert.Equal(t, []uint32{5, 4, 3, 2, 1}, seenValues)
	assert.EqualValues(t, 10, c.Registers.ReadRaw(varcfg.RegPC))
}

func TestPrivilegedInstructionRaisesException(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.Rom(isa.Instruction{Op: isa.OpRti, Args: isa.Args{Arity: isa.ArityNone}}))
	c.buildCache()

	result, err := c.Step()
	assert.Equal(t, StepException, result)
	require.Error(t, err)

	eventCode, memErr := c.Memory.Read(varcfg.EventCodeAddr)
	require.NoError(t, memErr)
	assert.EqualValues(t, PrivilegedInstruction, eventCode)
	assert.EqualValues(t, varcfg.ExceptionVector, c.Registers.ReadRaw(varcfg.RegPC))
}

func TestPCAutoincrement(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.Rom(isa.Instruction{
		Op: isa.OpLd, Args: isa.Args{Arity: isa.ArityBinary, Lhs: isa.Imm(5), Rhs: isa.Reg(varcfg.RegA)},
	}))
	c.buildCache()

	_, err := c.Step()
	require.NoError(t, err)
	assert.EqualValues(t, 2, c.Registers.ReadRaw(varcfg.RegPC))
}

func TestResetReturnsStepReset(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.Rom(isa.Instruction{Op: isa.OpReset, Args: isa.Args{Arity: isa.ArityNone}}))
	c.Registers.WriteRaw(varcfg.RegA, 42)
	c.buildCache()

	result, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, StepReset, result)
	assert.EqualValues(t, 0, c.Registers.ReadRaw(varcfg.RegA))
}

func TestPushPopRoundTrip(t *testing.T) {
	c := newTestCPU()
	require.NoError(t, c.Rom(
		isa.Instruction{Op: isa.OpPush, Args: isa.Args{Arity: isa.ArityUnary, Lhs: isa.Imm(42)}},
		isa.Instruction{Op: isa.OpPop, Args: isa.Args{Arity: isa.ArityUnary, Lhs: isa.Reg(varcfg.RegB)}},
	))
	c.Registers.WriteRaw(varcfg.RegSP, 9000)
	c.buildCache()

	_, err := c.Step()
	require.NoError(t, err)
	assert.EqualValues(t, 8999, c.Registers.ReadRaw(varcfg.RegSP))

	val, err := c.Memory.Read(8999)
	require.NoError(t, err)
	assert.EqualValues(t, 42, val)

	_, err = c.Step()
	require.NoError(t, err)
	assert.EqualValues(t, 9000, c.Registers.ReadRaw(varcfg.RegSP))
	assert.EqualValues(t, 42, c.Registers.ReadRaw(varcfg.RegB))
}

func TestInvalidMemoryAccessOutOfBounds(t *testing.T) {
	c := newTestCPU()
	_, err := c.Memory.Read(c.Memory.Len())
	require.Error(t, err)
	exc, ok := err.(*Exception)
	require.True(t, ok)
	assert.Equal(t, InvalidMemoryAccess, exc.Code)
}
