package codemap

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeMapIsIdentity(t *testing.T) {
	cm := NewCodeMap("hello world")

	for i := 0; i <= len(cm.Modified); i++ {
		conv, err := cm.ConvertToOriginal(i)
		require.NoError(t, err)
		require.Equal(t, OneToOne, conv.Kind)
		assert.Equal(t, i, conv.Index)
	}
}

func TestReplaceCharactersShiftsLaterSegments(t *testing.T) {
	cm := NewCodeMap("aaa bbb ccc")
	cm.ReplaceCharacters(Range{Start: 4, End: 7}, "X")

	assert.Equal(t, "aaa X ccc", cm.Modified)

	// The replacement byte resolves to a range, since it no longer has a
	// one-to-one original counterpart.
	conv, err := cm.ConvertToOriginal(4)
	require.NoError(t, err)
	assert.Equal(t, OneToRange, conv.Kind)
	assert.Equal(t, Range{Start: 4, End: 7}, conv.Range)

	// Text after the edit shifts by len("X")-len("bbb") = -2, but still maps
	// back to its original position one-to-one.
	conv, err = cm.ConvertToOriginal(6)
	require.NoError(t, err)
	assert.Equal(t, OneToOne, conv.Kind)
	assert.Equal(t, 8, conv.Index)
}

func TestReplaceCharactersConvertToModified(t *testing.T) {
	cm := NewCodeMap("aaa bbb ccc")
	cm.ReplaceCharacters(Range{Start: 4, End: 7}, "X")

	// Original offset 4 (start of "bbb") was consumed by the edit.
	_, ok := cm.ConvertToModified(4)
	assert.False(t, ok)

	// Original offset 8 (start of "ccc") still resolves, shifted by -2.
	modIdx, ok := cm.ConvertToModified(8)
	require.True(t, ok)
	assert.Equal(t, 6, modIdx)
}

func TestInsertFileContentsRecordsExternalSegment(t *testing.T) {
	cm := NewCodeMap("#include <a>\n")
	fileID := uuid.New()
	cm.InsertFileContents("included text", fileID, Range{Start: 0, End: len(cm.Modified)})

	assert.Equal(t, "included text", cm.Modified)

	conv, err := cm.ConvertToOriginal(3)
	require.NoError(t, err)
	require.Equal(t, OneToFileOffset, conv.Kind)
	assert.Equal(t, fileID, conv.File)
	assert.Equal(t, 3, conv.Offset)
}

func TestSplitSegmentIsNoOpOnExistingBoundary(t *testing.T) {
	cm := NewCodeMap("hello")
	before := len(cm.Segments)
	cm.SplitSegment(0)
	cm.SplitSegment(len(cm.Modified))
	assert.Equal(t, before, len(cm.Segments))
}

func TestSplitSegmentOnNonDirectSegmentPanics(t *testing.T) {
	cm := NewCodeMap("aaa bbb ccc")
	cm.ReplaceCharacters(Range{Start: 4, End: 7}, "XYZ")

	assert.Panics(t, func() {
		cm.SplitSegment(5)
	})
}

func TestConvertToOriginalOutOfRangeIsError(t *testing.T) {
	cm := NewCodeMap("abc")
	_, err := cm.ConvertToOriginal(-1)
	assert.Error(t, err)
	_, err = cm.ConvertToOriginal(len(cm.Modified) + 1)
	assert.Error(t, err)
}

func TestSequentialEditsCompose(t *testing.T) {
	cm := NewCodeMap("one two three")
	cm.ReplaceCharacters(Range{Start: 0, End: 3}, "1")
	cm.ReplaceCharacters(Range{Start: 2, End: 5}, "2")

	assert.Equal(t, "1 2 three", cm.Modified)

	conv, err := cm.ConvertToOriginal(4)
	require.NoError(t, err)
	assert.Equal(t, OneToOne, conv.Kind)
	assert.Equal(t, 8, conv.Index)
}
