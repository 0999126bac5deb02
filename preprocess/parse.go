package preprocess

import (
	"regexp"
	"strings"

	"github.com/z33-toolchain/z33/codemap"
)

var (
	reInclude = regexp.MustCompile(`^#include\s+<([^>]*)>\s*$`)
	reDefine  = regexp.MustCompile(`^#define\s+(\S+)(?:\s+(.*\S))?\s*$`)
	reIf      = regexp.MustCompile(`^#if\s+(defined|notdefined)\(([^)]+)\)\s*$`)
	reElseIf  = regexp.MustCompile(`^#elseif\s+(defined|notdefined)\(([^)]+)\)\s*$`)
	reElse    = regexp.MustCompile(`^#else\s*$`)
	reEndif   = regexp.MustCompile(`^#endif\s*$`)
)

// stripTrailingComment removes a trailing "// comment" from a directive
// line, per spec.md §4.2 ("each must occupy its own line, optionally
// followed by whitespace and a // comment"). It does not look inside
// quoted strings for the comment marker.
func stripTrailingComment(s string) string {
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && (i == 0 || s[i-1] != '\\') {
			inString = !inString
			continue
		}
		if !inString && c == '/' && i+1 < len(s) && s[i+1] == '/' {
			return strings.TrimSpace(s[:i])
		}
	}
	return s
}

// targetFrame names where the next sibling node is appended: either the
// file's root node list, or a specific branch's body within a still-open
// conditional.
type targetFrame struct {
	isRoot    bool
	nodeIdx   NodeIdx
	branchIdx int
}

// condFrame tracks one still-open #if…#endif group while parsing.
type condFrame struct {
	nodeIdx        NodeIdx
	branchBodyFrom int
}

type parser struct {
	src   string
	arena *Arena
	root  []NodeIdx

	targets []targetFrame
	conds   []condFrame
}

func (p *parser) top() targetFrame { return p.targets[len(p.targets)-1] }

func (p *parser) appendNode(child NodeIdx) {
	t := p.top()
	if t.isRoot {
		p.root = append(p.root, child)
		return
	}
	node := p.arena.Get(t.nodeIdx)
	node.Branches[t.branchIdx].Body = append(node.Branches[t.branchIdx].Body, child)
}

func (p *parser) flushText(from, to int) {
	if to <= from {
		return
	}
	p.appendNode(p.arena.New(Node{Kind: NodeText, Span: codemap.Range{Start: from, End: to}}))
}

// parseSource builds an AST over src's directive structure. It does not
// evaluate directives or perform symbol substitution; see eval.go.
func parseSource(path, src string) (*Arena, []NodeIdx, error) {
	p := &parser{
		src:     src,
		arena:   &Arena{},
		targets: []targetFrame{{isRoot: true}},
	}

	runStart := 0
	pos := 0
	n := len(src)

	for pos < n {
		lineStart := pos
		nl := strings.IndexByte(src[pos:], '\n')
		var lineEnd, lineFullEnd int
		if nl < 0 {
			lineEnd = n
			lineFullEnd = n
		} else {
			lineEnd = pos + nl
			lineFullEnd = lineEnd + 1
		}

		trimmed := strings.TrimSpace(src[lineStart:lineEnd])
		if strings.HasPrefix(trimmed, "#") {
			p.flushText(runStart, lineStart)
			if err := p.directive(path, stripTrailingComment(trimmed), lineStart, lineFullEnd); err != nil {
				return nil, nil, err
			}
			runStart = lineFullEnd
		}

		pos = lineFullEnd
	}

	p.flushText(runStart, n)

	if len(p.conds) != 0 {
		return nil, nil, &ParseError{Path: path, Offset: p.conds[len(p.conds)-1].branchBodyFrom, Msg: "unterminated #if"}
	}

	return p.arena, p.root, nil
}

func (p *parser) directive(path, trimmed string, lineStart, lineFullEnd int) error {
	span := codemap.Range{Start: lineStart, End: lineFullEnd}

	switch {
	case reInclude.MatchString(trimmed):
		m := reInclude.FindStringSubmatch(trimmed)
		idx := p.arena.New(Node{Kind: NodeInclude, IncludePath: m[1], IncludeSpan: span})
		p.appendNode(idx)

	case reDefine.MatchString(trimmed):
		m := reDefine.FindStringSubmatch(trimmed)
		name := m[1]
		rest := strings.TrimSpace(m[2])
		def := Define{Kind: DefineFlag}
		if rest != "" {
			def.Text = rest
			if strings.HasPrefix(rest, "\"") {
				def.Kind = DefineString
			} else {
				def.Kind = DefineNumber
			}
		}
		idx := p.arena.New(Node{Kind: NodeDefine, DefineName: name, DefineValue: def, DefineSpan: span})
		p.appendNode(idx)

	case reIf.MatchString(trimmed):
		m := reIf.FindStringSubmatch(trimmed)
		cond := conditionFromMatch(m)
		node := Node{Kind: NodeConditional, Branches: []Branch{{Condition: &cond, DirectiveSpan: span}}}
		idx := p.arena.New(node)
		p.appendNode(idx)
		p.conds = append(p.conds, condFrame{nodeIdx: idx, branchBodyFrom: lineFullEnd})
		p.targets = append(p.targets, targetFrame{nodeIdx: idx, branchIdx: 0})

	case reElseIf.MatchString(trimmed):
		if len(p.conds) == 0 {
			return &ParseError{Path: path, Offset: lineStart, Msg: "#elseif without #if"}
		}
		m := reElseIf.FindStringSubmatch(trimmed)
		cond := conditionFromMatch(m)
		p.closeBranch(lineStart)
		node := p.arena.Get(p.conds[len(p.conds)-1].nodeIdx)
		node.Branches = append(node.Branches, Branch{Condition: &cond, DirectiveSpan: span})
		branchIdx := len(node.Branches) - 1
		p.conds[len(p.conds)-1].branchBodyFrom = lineFullEnd
		p.targets = append(p.targets, targetFrame{nodeIdx: p.conds[len(p.conds)-1].nodeIdx, branchIdx: branchIdx})

	case reElse.MatchString(trimmed):
		if len(p.conds) == 0 {
			return &ParseError{Path: path, Offset: lineStart, Msg: "#else without #if"}
		}
		p.closeBranch(lineStart)
		node := p.arena.Get(p.conds[len(p.conds)-1].nodeIdx)
		node.Branches = append(node.Branches, Branch{Condition: nil, DirectiveSpan: span})
		branchIdx := len(node.Branches) - 1
		p.conds[len(p.conds)-1].branchBodyFrom = lineFullEnd
		p.targets = append(p.targets, targetFrame{nodeIdx: p.conds[len(p.conds)-1].nodeIdx, branchIdx: branchIdx})

	case reEndif.MatchString(trimmed):
		if len(p.conds) == 0 {
			return &ParseError{Path: path, Offset: lineStart, Msg: "#endif without #if"}
		}
		p.closeBranch(lineStart)
		frame := p.conds[len(p.conds)-1]
		node := p.arena.Get(frame.nodeIdx)
		node.EndifSpan = span
		p.conds = p.conds[:len(p.conds)-1]

	default:
		return &ParseError{Path: path, Offset: lineStart, Msg: "unrecognized directive: " + trimmed}
	}

	return nil
}

// closeBranch ends the currently open branch of the innermost conditional
// at lineStart and pops its target frame; callers then push a new one
// (#elseif/#else) or leave the stack popped (#endif).
func (p *parser) closeBranch(lineStart int) {
	frame := p.conds[len(p.conds)-1]
	node := p.arena.Get(frame.nodeIdx)
	last := &node.Branches[len(node.Branches)-1]
	last.BodySpan = codemap.Range{Start: frame.branchBodyFrom, End: lineStart}
	p.targets = p.targets[:len(p.targets)-1]
}

func conditionFromMatch(m []string) Condition {
	kind := CondDefined
	if m[1] == "notdefined" {
		kind = CondNotDefined
	}
	return Condition{Kind: kind, Name: m[2]}
}
