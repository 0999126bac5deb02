package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z33-toolchain/z33/codemap"
)

// memResolver is an in-memory FileResolver for tests, keyed by the same
// strings used as #include targets.
type memResolver map[string]string

func (m memResolver) Canonical(path string) (string, error) { return path, nil }

func (m memResolver) ReadFile(path string) (string, error) {
	src, ok := m[path]
	if !ok {
		return "", &ParseError{Path: path, Msg: "no such file"}
	}
	return src, nil
}

func TestTextWithNoDirectivesIsUnchanged(t *testing.T) {
	r := memResolver{"main.z": "ld 1, %a\nadd 2, %a\n"}
	out, err := Text(r, "main.z")
	require.NoError(t, err)
	assert.Equal(t, "ld 1, %a\nadd 2, %a\n", out)
}

func TestDefineSubstitutesWholeIdentifierTokens(t *testing.T) {
	r := memResolver{"main.z": "#define COUNT 5\nld COUNT, %a\n"}
	out, err := Text(r, "main.z")
	require.NoError(t, err)
	assert.Equal(t, "ld 5, %a\n", out)
}

func TestDefineDoesNotClipLongerIdentifiers(t *testing.T) {
	r := memResolver{"main.z": "#define A 1\nld A, %a\nld AB, %b\n"}
	out, err := Text(r, "main.z")
	require.NoError(t, err)
	assert.Equal(t, "ld 1, %a\nld AB, %b\n", out)
}

func TestRedefinitionIsParseError(t *testing.T) {
	r := memResolver{"main.z": "#define X 1\n#define X 2\n"}
	_, err := Text(r, "main.z")
	require.Error(t, err)
	_, ok := err.(*ParseError)
	assert.True(t, ok)
}

func TestIfDefinedSelectsTakenBranch(t *testing.T) {
	r := memResolver{"main.z": "#define DEBUG\n#if defined(DEBUG)\nld 1, %a\n#else\nld 2, %a\n#endif\n"}
	out, err := Text(r, "main.z")
	require.NoError(t, err)
	assert.Equal(t, "ld 1, %a\n", out)
}

func TestIfNotDefinedTakesElseBranch(t *testing.T) {
	r := memResolver{"main.z": "#if notdefined(DEBUG)\nld 1, %a\n#else\nld 2, %a\n#endif\n"}
	out, err := Text(r, "main.z")
	require.NoError(t, err)
	assert.Equal(t, "ld 1, %a\n", out)
}

func TestElseIfChainPicksFirstMatch(t *testing.T) {
	r := memResolver{"main.z": "#define B\n#if defined(A)\nld 1, %a\n#elseif defined(B)\nld 2, %a\n#else\nld 3, %a\n#endif\n"}
	out, err := Text(r, "main.z")
	require.NoError(t, err)
	assert.Equal(t, "ld 2, %a\n", out)
}

// TestIncludeExpandsCrossFile mirrors spec.md §8 scenario 5: an #include
// target's expansion is spliced in as a non-direct segment carrying the
// included file's own Code-Map UUID, so positions inside it resolve via
// OneToFileOffset rather than into the including file's original text.
func TestIncludeExpandsCrossFile(t *testing.T) {
	r := memResolver{
		"main.z": "#include <lib.z>\nld 1, %a\n",
		"lib.z":  "ld 9, %b\n",
	}
	ctx, id, err := Preprocess(r, "main.z")
	require.NoError(t, err)

	cm := ctx.CodeMaps[id]
	assert.Equal(t, "ld 9, %b\nld 1, %a\n", cm.Modified)

	conv, err := cm.ConvertToOriginal(3)
	require.NoError(t, err)
	require.Equal(t, codemap.OneToFileOffset, conv.Kind)
	assert.Equal(t, 3, conv.Offset)
}

func TestIncludeCycleIsDetected(t *testing.T) {
	r := memResolver{
		"a.z": "#include <b.z>\n",
		"b.z": "#include <a.z>\n",
	}
	_, _, err := Preprocess(r, "a.z")
	require.Error(t, err)
	_, ok := err.(*CycleError)
	assert.True(t, ok)
}

func TestMissingIncludeFilePropagatesError(t *testing.T) {
	r := memResolver{"main.z": "#include <missing.z>\n"}
	_, _, err := Preprocess(r, "main.z")
	assert.Error(t, err)
}

func TestCommentsAreNotTreatedAsIdentifiers(t *testing.T) {
	r := memResolver{"main.z": "#define X 1\nld 0, %a // X is not substituted here\n"}
	out, err := Text(r, "main.z")
	require.NoError(t, err)
	assert.Equal(t, "ld 0, %a // X is not substituted here\n", out)
}
