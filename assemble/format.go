package assemble

import (
	"fmt"
	"strings"

	"github.com/z33-toolchain/z33/isa"
	"github.com/z33-toolchain/z33/varcfg"
)

// Format renders items back to assembly text, the inverse of Parse, used to
// verify the parse/print round-trip property (spec.md §8).
func Format(items []Item, v varcfg.Variation) string {
	var b strings.Builder
	for _, it := range items {
		switch it.Kind {
		case ItemLabel:
			b.WriteString(it.Label)
			b.WriteString(":\n")
		case ItemInstruction:
			b.WriteString(isa.Format(v, it.Instruction))
			b.WriteByte('\n')
		case ItemWord:
			fmt.Fprintf(&b, ".word %d\n", int32(it.Word))
		case ItemAddr:
			fmt.Fprintf(&b, ".addr %d\n", int32(it.Word))
		case ItemSpace:
			fmt.Fprintf(&b, ".space %d\n", it.Space)
		case ItemString:
			fmt.Fprintf(&b, ".string %q\n", it.Str)
		}
	}
	return b.String()
}
