package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

func TestParseInstructionOperands(t *testing.T) {
	v := varcfg.Standard()

	items, err := Parse("add 3, %a\nld [500], %b\nst %a, [%b + 4]\njmp loop\nloop:\nnop\n", v)
	require.NoError(t, err)

	require.Len(t, items, 6)
	assert.Equal(t, isa.OpAdd, items[0].Instruction.Op)
	assert.Equal(t, isa.KindImmediate, items[0].Instruction.Args.Lhs.Kind)
	assert.Equal(t, isa.KindRegister, items[0].Instruction.Args.Rhs.Kind)

	assert.Equal(t, isa.OpLd, items[1].Instruction.Op)
	assert.Equal(t, isa.KindDirect, items[1].Instruction.Args.Lhs.Kind)

	assert.Equal(t, isa.OpSt, items[2].Instruction.Op)
	assert.Equal(t, isa.KindIndexedIndirect, items[2].Instruction.Args.Rhs.Kind)
	assert.EqualValues(t, 4, items[2].Instruction.Args.Rhs.Offset)

	assert.Equal(t, ItemLabel, items[4].Kind)
	assert.Equal(t, "loop", items[4].Label)
}

func TestAssembleComputesLabelAddresses(t *testing.T) {
	v := varcfg.Standard()
	src := `
start:
	nop
	jmp start
`
	prog, err := Assemble(src, v)
	require.NoError(t, err)
	assert.EqualValues(t, 0, prog.Labels["start"])
	// nop occupies 2 words, jmp occupies 2 more.
	assert.Len(t, prog.Words, 4)
}

func TestAssembleDirectives(t *testing.T) {
	v := varcfg.Standard()
	src := `
.word 42
.addr 7
.space 3
.string "hi"
`
	prog, err := Assemble(src, v)
	require.NoError(t, err)
	// .word(1) + .addr(1) + .space(3) + .string("hi\0" -> 1 word) = 6
	require.Len(t, prog.Words, 6)
	assert.EqualValues(t, 42, prog.Words[0])
	assert.EqualValues(t, 7, prog.Words[1])
	assert.EqualValues(t, 0, prog.Words[2])
	assert.EqualValues(t, 0, prog.Words[3])
	assert.EqualValues(t, 0, prog.Words[4])
}

func TestAssembleDuplicateLabelIsError(t *testing.T) {
	v := varcfg.Standard()
	src := "a:\nnop\na:\nnop\n"
	_, err := Assemble(src, v)
	assert.Error(t, err)
}

func TestAssembleRejectsDisallowedMode(t *testing.T) {
	v := varcfg.Standard()
	_, err := Assemble("not 5\n", v)
	assert.Error(t, err)
}

func TestParseFormatRoundTrip(t *testing.T) {
	v := varcfg.Standard()
	src := "add 3, %a\nld [500], %b\n"
	items, err := Parse(src, v)
	require.NoError(t, err)

	out := Format(items, v)
	items2, err := Parse(out, v)
	require.NoError(t, err)
	assert.Equal(t, items, items2)
}

func TestParseUnknownRegisterIsError(t *testing.T) {
	v := varcfg.Standard()
	_, err := Parse("ld [500], %zzz\n", v)
	assert.Error(t, err)
}

func TestParseOutOfRangeLiteralIsError(t *testing.T) {
	v := varcfg.Standard()
	_, err := Parse("add 99999999999, %a\n", v)
	assert.Error(t, err)
}

func TestParseUnterminatedStringIsError(t *testing.T) {
	v := varcfg.Standard()
	_, err := Parse(".string \"unterminated\n", v)
	assert.Error(t, err)
}
