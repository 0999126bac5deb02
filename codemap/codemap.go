// Package codemap implements the edit-tracking structure described in
// spec.md §4.1: a Code-Map owns an `original` and `modified` string plus an
// ordered list of segments, and supports bidirectional conversion between
// positions in the two, including positions that cross file boundaries via
// an external Code-Map's UUID.
//
// Positions and ranges are byte offsets into the respective string.
package codemap

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Range is a half-open interval [Start, End) of byte offsets.
type Range struct {
	Start int
	End   int
}

// Len reports the number of bytes the range spans.
func (r Range) Len() int { return r.End - r.Start }

// Segment is one tile of the Code-Map: it covers Current in `modified` and
// maps back to Previous, either in `original` (External == nil) or in the
// Code-Map identified by *External (External != nil). Direct marks a
// guaranteed one-to-one character correspondence between Previous and
// Current; only direct segments may be split.
type Segment struct {
	Previous Range
	Current  Range
	Direct   bool
	External *uuid.UUID
}

// CodeMap owns the original and modified text of one file along with the
// segments mapping between them.
type CodeMap struct {
	Original string
	Modified string
	Segments []Segment
}

// ErrNotDirectSegment is the panic value raised by SplitSegment when asked
// to split a non-direct segment. Per spec.md §4.1/§7 this is a programmer
// error (an assertion), not a recoverable condition.
type ErrNotDirectSegment struct {
	At int
}

func (e ErrNotDirectSegment) Error() string {
	return fmt.Sprintf("codemap: cannot split non-direct segment at modified offset %d", e.At)
}

// NewCodeMap creates a Code-Map for s with a single direct segment covering
// the whole string.
func NewCodeMap(s string) *CodeMap {
	r := Range{0, len(s)}
	return &CodeMap{
		Original: s,
		Modified: s,
		Segments: []Segment{{Previous: r, Current: r, Direct: true}},
	}
}

// segmentIndex returns the index of the segment whose Current range covers
// idx (inclusive lower bound, exclusive upper bound), except that an idx
// equal to the very end of `modified` resolves to the last segment, since
// there is no following segment to claim it.
func (c *CodeMap) segmentIndex(idx int) int {
	n := len(c.Segments)
	if n == 0 {
		panic("codemap: code map has no segments")
	}

	total := c.Segments[n-1].Current.End
	if idx >= total {
		return n - 1
	}
	if idx < 0 {
		return 0
	}

	return sort.Search(n, func(i int) bool { return c.Segments[i].Current.End > idx })
}

// boundaryToPrevious maps a position in `modified` (which may sit exactly on
// a segment boundary, including the very end of the text) back to a
// position in that segment's Previous range.
func (c *CodeMap) boundaryToPrevious(idx int) int {
	seg := c.Segments[c.segmentIndex(idx)]
	if seg.Direct {
		return seg.Previous.Start + (idx - seg.Current.Start)
	}
	if idx <= seg.Current.Start {
		return seg.Previous.Start
	}
	return seg.Previous.End
}

// SplitSegment splits the direct-mapping segment covering `at` into two
// direct-mapping segments with proportionally divided Previous ranges. If
// `at` already sits on an existing segment boundary this is a no-op. It
// panics with ErrNotDirectSegment if `at` falls strictly inside a
// non-direct segment.
func (c *CodeMap) SplitSegment(at int) {
	idx := c.segmentIndex(at)
	seg := c.Segments[idx]

	if at <= seg.Current.Start || at >= seg.Current.End {
		return
	}

	if !seg.Direct {
		panic(ErrNotDirectSegment{At: at})
	}

	offset := at - seg.Current.Start
	left := Segment{
		Previous: Range{seg.Previous.Start, seg.Previous.Start + offset},
		Current:  Range{seg.Current.Start, at},
		Direct:   true,
	}
	right := Segment{
		Previous: Range{seg.Previous.Start + offset, seg.Previous.End},
		Current:  Range{at, seg.Current.End},
		Direct:   true,
	}

	segments := make([]Segment, 0, len(c.Segments)+1)
	segments = append(segments, c.Segments[:idx]...)
	segments = append(segments, left, right)
	segments = append(segments, c.Segments[idx+1:]...)
	c.Segments = segments
}

// splitAtBoundary ensures `at` is a segment boundary, splitting the
// containing direct segment if necessary. It is a no-op at the extremities
// of `modified`.
func (c *CodeMap) splitAtBoundary(at int) {
	if at <= 0 || at >= len(c.Modified) {
		return
	}
	c.SplitSegment(at)
}

// shiftSegmentsFrom shifts the Current range of every segment from index
// `from` onward by delta.
func (c *CodeMap) shiftSegmentsFrom(from, delta int) {
	for i := from; i < len(c.Segments); i++ {
		c.Segments[i].Current.Start += delta
		c.Segments[i].Current.End += delta
	}
}

// spliceReplace is the shared splice algorithm behind ReplaceCharacters and
// InsertFileContents: it splits at the boundaries of r, drops the segments
// fully enclosed by r, rewrites `modified`, and inserts a single replacement
// segment mapping back to the span that was removed.
func (c *CodeMap) spliceReplace(r Range, text string, external *uuid.UUID) {
	c.splitAtBoundary(r.Start)
	c.splitAtBoundary(r.End)

	originalStart := c.boundaryToPrevious(r.Start)
	originalEnd := c.boundaryToPrevious(r.End)

	firstIdx := c.segmentIndex(r.Start)
	// After splitting, if r.Start == r.End (pure insertion) there is no
	// enclosed segment to drop; firstIdx here is where the insertion sits.
	lastIdx := firstIdx
	if r.End > r.Start {
		// Find the (exclusive) index just past the last segment enclosed
		// in [r.Start, r.End).
		lastIdx = firstIdx
		for lastIdx < len(c.Segments) && c.Segments[lastIdx].Current.Start < r.End {
			lastIdx++
		}
	}

	newSegment := Segment{
		Previous: Range{originalStart, originalEnd},
		Current:  Range{r.Start, r.Start + len(text)},
		Direct:   false,
		External: external,
	}

	delta := len(text) - r.Len()

	segments := make([]Segment, 0, len(c.Segments)+1)
	segments = append(segments, c.Segments[:firstIdx]...)
	segments = append(segments, newSegment)
	segments = append(segments, c.Segments[lastIdx:]...)
	c.Segments = segments

	c.shiftSegmentsFrom(firstIdx+1, delta)

	c.Modified = c.Modified[:r.Start] + text + c.Modified[r.End:]
}

// ReplaceCharacters replaces modified[r] with text. The affected span
// becomes a single non-direct segment mapping back to the original span
// that was replaced; later segments shift by len(text) - r.Len().
func (c *CodeMap) ReplaceCharacters(r Range, text string) {
	c.spliceReplace(r, text, nil)
}

// InsertFileContents is ReplaceCharacters, except the new segment's
// External field is set to fileUUID so ConvertToOriginal resolves through
// that file's own Code-Map instead of this one's `original`.
func (c *CodeMap) InsertFileContents(text string, fileUUID uuid.UUID, r Range) {
	c.spliceReplace(r, text, &fileUUID)
}

// ConversionKind tags the shape of a ConvertToOriginal result.
type ConversionKind int

const (
	// OneToOne: the modified position maps to exactly one original position.
	OneToOne ConversionKind = iota
	// OneToRange: the modified position fell inside a non-direct, local
	// segment; the best available answer is the whole replaced range.
	OneToRange
	// OneToFileOffset: the modified position's segment carries an External
	// UUID; the offset is into that other Code-Map's Previous/Modified space.
	OneToFileOffset
)

// Conversion is the tagged result of ConvertToOriginal.
type Conversion struct {
	Kind ConversionKind

	// Valid when Kind == OneToOne.
	Index int
	// Valid when Kind == OneToRange.
	Range Range
	// Valid when Kind == OneToFileOffset.
	File   uuid.UUID
	Offset int
}

func (c Conversion) String() string {
	switch c.Kind {
	case OneToOne:
		return fmt.Sprintf("OneToOne(%d)", c.Index)
	case OneToRange:
		return fmt.Sprintf("OneToRange(%d,%d)", c.Range.Start, c.Range.End)
	case OneToFileOffset:
		return fmt.Sprintf("OneToFileOffset(%s,%d)", c.File, c.Offset)
	default:
		return "Conversion(?)"
	}
}

// ConvertToOriginal maps a position in `modified` back to its origin.
func (c *CodeMap) ConvertToOriginal(modifiedIndex int) (Conversion, error) {
	if modifiedIndex < 0 || modifiedIndex > len(c.Modified) {
		return Conversion{}, fmt.Errorf("codemap: modified index %d out of range [0,%d]", modifiedIndex, len(c.Modified))
	}

	seg := c.Segments[c.segmentIndex(modifiedIndex)]
	offset := modifiedIndex - seg.Current.Start

	if seg.External != nil {
		return Conversion{
			Kind:   OneToFileOffset,
			File:   *seg.External,
			Offset: offset,
		}, nil
	}

	if seg.Direct {
		return Conversion{Kind: OneToOne, Index: seg.Previous.Start + offset}, nil
	}

	return Conversion{Kind: OneToRange, Range: seg.Previous}, nil
}

// ConvertToModified maps a position in `original` forward to `modified`.
// It returns (0, false) if the original position was removed by an edit or
// now lives only via another file's Code-Map.
func (c *CodeMap) ConvertToModified(originalIndex int) (int, bool) {
	for _, seg := range c.Segments {
		if seg.External != nil || !seg.Direct {
			continue
		}
		if originalIndex >= seg.Previous.Start && originalIndex < seg.Previous.End {
			return seg.Current.Start + (originalIndex - seg.Previous.Start), true
		}
		// The exact end of the original text is claimed by the direct
		// segment whose Previous range ends there; allow an exact match on
		// Previous.End for that position only.
		if originalIndex == len(c.Original) && originalIndex == seg.Previous.End {
			return seg.Current.End, true
		}
	}
	return 0, false
}
