package preprocess

import (
	"strings"

	"github.com/z33-toolchain/z33/codemap"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// substitute replaces every whole-identifier token in text that names an
// active #define with that define's literal text, skipping string/char
// literals and "//" line comments. Matching is on whole tokens, so a longer
// macro name never gets clipped by a shorter one that happens to prefix it.
func substitute(text string, defines map[string]Define) string {
	if len(defines) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	n := len(text)
	i := 0

	for i < n {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			quote := c
			j := i + 1
			for j < n && text[j] != quote {
				if text[j] == '\\' && j+1 < n {
					j++
				}
				j++
			}
			if j < n {
				j++
			}
			b.WriteString(text[i:j])
			i = j

		case c == '/' && i+1 < n && text[i+1] == '/':
			nl := strings.IndexByte(text[i:], '\n')
			if nl < 0 {
				b.WriteString(text[i:])
				i = n
			} else {
				b.WriteString(text[i : i+nl])
				i += nl
			}

		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentCont(text[j]) {
				j++
			}
			ident := text[i:j]
			if def, ok := defines[ident]; ok {
				b.WriteString(def.Text)
			} else {
				b.WriteString(ident)
			}
			i = j

		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String()
}

// blank replaces the text covering an original span (already-untouched, so
// ConvertToModified resolves it) with the empty string.
func blank(cm *codemap.CodeMap, span codemap.Range) {
	start, ok1 := cm.ConvertToModified(span.Start)
	end, ok2 := cm.ConvertToModified(span.End)
	if !ok1 || !ok2 {
		return
	}
	cm.ReplaceCharacters(codemap.Range{Start: start, End: end}, "")
}

// walk evaluates nodes in document order against cm, mutating cm in place.
// Nodes must be processed left to right so that ConvertToModified keeps
// resolving the not-yet-visited remainder of the file correctly.
func walk(ctx *Context, path string, cm *codemap.CodeMap, arena *Arena, nodes []NodeIdx) error {
	for _, idx := range nodes {
		node := arena.Get(idx)

		switch node.Kind {
		case NodeText:
			start, ok1 := cm.ConvertToModified(node.Span.Start)
			end, ok2 := cm.ConvertToModified(node.Span.End)
			if !ok1 || !ok2 {
				continue
			}
			original := cm.Modified[start:end]
			replaced := substitute(original, ctx.Defines)
			if replaced != original {
				cm.ReplaceCharacters(codemap.Range{Start: start, End: end}, replaced)
			}

		case NodeDefine:
			if _, exists := ctx.Defines[node.DefineName]; exists {
				return &ParseError{Path: path, Offset: node.DefineSpan.Start, Msg: "redefinition of " + node.DefineName}
			}
			ctx.Defines[node.DefineName] = node.DefineValue
			blank(cm, node.DefineSpan)

		case NodeInclude:
			start, ok1 := cm.ConvertToModified(node.IncludeSpan.Start)
			end, ok2 := cm.ConvertToModified(node.IncludeSpan.End)
			if !ok1 || !ok2 {
				continue
			}

			id, err := preprocessFile(ctx, node.IncludePath)
			if err != nil {
				return err
			}
			included := ctx.CodeMaps[id]
			cm.InsertFileContents(included.Modified, id, codemap.Range{Start: start, End: end})

		case NodeConditional:
			if err := walkConditional(ctx, path, cm, arena, node); err != nil {
				return err
			}
		}
	}

	return nil
}

func walkConditional(ctx *Context, path string, cm *codemap.CodeMap, arena *Arena, node *Node) error {
	selected := -1
	for i := range node.Branches {
		br := &node.Branches[i]
		if br.Condition == nil || br.Condition.eval(ctx.Defines) {
			selected = i
			break
		}
	}

	for i := range node.Branches {
		br := &node.Branches[i]
		if i == selected {
			blank(cm, br.DirectiveSpan)
			if err := walk(ctx, path, cm, arena, br.Body); err != nil {
				return err
			}
			continue
		}
		blank(cm, codemap.Range{Start: br.DirectiveSpan.Start, End: br.BodySpan.End})
	}

	blank(cm, node.EndifSpan)
	return nil
}
