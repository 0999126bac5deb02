package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z33-toolchain/z33/assemble"
	"github.com/z33-toolchain/z33/varcfg"
)

// TestAssembleAndRun exercises the full pipeline from assembly text to a
// running processor: Assemble produces a word image, LoadWords places it
// in memory, and Step executes it.
func TestAssembleAndRun(t *testing.T) {
	v := varcfg.Standard()
	src := "ld 9, %a\nadd 1, %a\n"

	prog, err := assemble.Assemble(src, v)
	require.NoError(t, err)

	c := NewCPU(v)
	require.NoError(t, c.LoadWords(0, prog.Words))
	c.buildCache()

	_, err = c.Step()
	require.NoError(t, err)
	assert.EqualValues(t, 9, c.Registers.ReadRaw(varcfg.RegA))

	_, err = c.Step()
	require.NoError(t, err)
	assert.EqualValues(t, 10, c.Registers.ReadRaw(varcfg.RegA))
}
