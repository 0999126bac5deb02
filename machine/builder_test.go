package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

func TestRomWritesAtAddressZero(t *testing.T) {
	c := newTestCPU()
	nop := isa.Instruction{Op: isa.OpNop, Args: isa.Args{Arity: isa.ArityNone}}
	require.NoError(t, c.Rom(nop))

	hi, lo, err := c.Memory.ReadWords(0)
	require.NoError(t, err)
	decoded, ok := isa.DecodeWords(hi, lo)
	require.True(t, ok)
	assert.Equal(t, nop, decoded)
}

func TestInterruptHandlerWritesAtExceptionVector(t *testing.T) {
	c := newTestCPU()
	rti := isa.Instruction{Op: isa.OpRti, Args: isa.Args{Arity: isa.ArityNone}}
	require.NoError(t, c.InterruptHandler(rti))

	hi, lo, err := c.Memory.ReadWords(varcfg.ExceptionVector)
	require.NoError(t, err)
	decoded, ok := isa.DecodeWords(hi, lo)
	require.True(t, ok)
	assert.Equal(t, rti, decoded)
}

func TestLoadWordsOutOfBoundsErrors(t *testing.T) {
	c := newTestCPU()
	words := make([]uint32, c.Memory.Len()+1)
	assert.Error(t, c.LoadWords(0, words))
}
