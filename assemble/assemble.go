package assemble

import (
	"fmt"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
	"github.com/z33-toolchain/z33/zlog"
)

// Program is the output of a successful assembly: a flat word-addressed
// memory image plus the label table recorded for debugging (spec.md §4.3
// documents labels only as markers; see DESIGN.md for why they are not
// wired into operand syntax).
type Program struct {
	Words  []uint32
	Labels map[string]uint32
}

// itemWords reports how many 32-bit words an Item occupies in the image,
// per SPEC_FULL.md's directive memory-layout rules.
func itemWords(it Item) (int, error) {
	switch it.Kind {
	case ItemLabel:
		return 0, nil
	case ItemInstruction:
		return 2, nil
	case ItemWord, ItemAddr:
		return 1, nil
	case ItemSpace:
		return int(it.Space), nil
	case ItemString:
		return (len(it.Str) + 4) / 4, nil
	default:
		return 0, fmt.Errorf("assemble: unknown item kind %d", it.Kind)
	}
}

// packString packs s's bytes 4-per-word little-endian, zero-padded and
// NUL-terminated in the final word, per SPEC_FULL.md's supplemented
// `.string` semantics.
func packString(s string) []uint32 {
	b := append([]byte(s), 0)
	n := (len(b) + 3) / 4
	words := make([]uint32, n)
	for i, c := range b {
		words[i/4] |= uint32(c) << uint(8*(i%4))
	}
	return words
}

// Assemble runs a two-pass assembly over src against variation v: the first
// pass computes every label's address, the second encodes instructions and
// emits directive words into the final memory image.
func Assemble(src string, v varcfg.Variation) (Program, error) {
	log := zlog.Component("assemble")

	items, err := Parse(src, v)
	if err != nil {
		return Program{}, err
	}

	labels := make(map[string]uint32)
	addr := uint32(0)
	for _, it := range items {
		if it.Kind == ItemLabel {
			if _, exists := labels[it.Label]; exists {
				return Program{}, &ParseError{Line: it.Line, Msg: fmt.Sprintf("duplicate label %q", it.Label)}
			}
			labels[it.Label] = addr
			continue
		}
		n, err := itemWords(it)
		if err != nil {
			return Program{}, err
		}
		addr += uint32(n)
	}

	words := make([]uint32, 0, addr)
	for _, it := range items {
		switch it.Kind {
		case ItemLabel:
			continue

		case ItemInstruction:
			hi, lo, ok := isa.EncodeWords(it.Instruction)
			if !ok {
				return Program{}, &ParseError{Line: it.Line, Msg: fmt.Sprintf("instruction does not fit any encoding: %+v", it.Instruction)}
			}
			words = append(words, hi, lo)

		case ItemWord, ItemAddr:
			words = append(words, it.Word)

		case ItemSpace:
			words = append(words, make([]uint32, it.Space)...)

		case ItemString:
			words = append(words, packString(it.Str)...)
		}
	}

	if uint32(len(words)) > v.MemoryWords {
		return Program{}, fmt.Errorf("assemble: program needs %d words, variation %q only has %d", len(words), v.Name, v.MemoryWords)
	}

	log.Debugf("assembled %d words, %d labels", len(words), len(labels))
	return Program{Words: words, Labels: labels}, nil
}
