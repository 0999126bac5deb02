package preprocess

import "github.com/z33-toolchain/z33/codemap"

// NodeIdx indexes into an Arena. The AST is arena-indexed rather than
// built from owning parent/child pointers: nodes reference each other only
// by NodeIdx, so the tree can be walked and rewritten without tracking back
// references.
type NodeIdx int32

// NodeKind tags the variant stored in a Node.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeInclude
	NodeDefine
	NodeConditional
)

// ConditionKind tags a #if/#elseif test.
type ConditionKind int

const (
	CondDefined ConditionKind = iota
	CondNotDefined
)

// Condition is a single defined(NAME)/notdefined(NAME) test.
type Condition struct {
	Kind ConditionKind
	Name string
}

func (c Condition) eval(defines map[string]Define) bool {
	_, ok := defines[c.Name]
	if c.Kind == CondNotDefined {
		return !ok
	}
	return ok
}

// Branch is one arm of a conditional group: #if/#elseif carry a Condition,
// #else carries nil (always taken if reached).
type Branch struct {
	Condition     *Condition
	Body          []NodeIdx
	DirectiveSpan codemap.Range // the #if/#elseif/#else line itself
	BodySpan      codemap.Range // from end of DirectiveSpan to the next directive
}

// Node is one AST element. Only the fields relevant to Kind are populated.
type Node struct {
	Kind NodeKind

	// NodeText
	Span codemap.Range

	// NodeInclude
	IncludePath string
	IncludeSpan codemap.Range

	// NodeDefine
	DefineName  string
	DefineValue Define
	DefineSpan  codemap.Range

	// NodeConditional
	Branches []Branch
	EndifSpan codemap.Range
}

// Arena owns every Node in one file's AST.
type Arena struct {
	Nodes []Node
}

// New appends n and returns its index.
func (a *Arena) New(n Node) NodeIdx {
	a.Nodes = append(a.Nodes, n)
	return NodeIdx(len(a.Nodes) - 1)
}

// Get returns a pointer to the node at i for in-place mutation during
// parsing (e.g. appending branches to a still-open conditional).
func (a *Arena) Get(i NodeIdx) *Node {
	return &a.Nodes[i]
}
