// Package preprocess implements the spec's four-stage pipeline — lex, parse
// into an AST, evaluate document-order, emit a Code-Map — for the
// #include/#define/#if family of directives plus whole-identifier-token
// symbol substitution.
package preprocess

import (
	"github.com/google/uuid"

	"github.com/z33-toolchain/z33/codemap"
)

// FileResolver abstracts the filesystem so #include can be tested without
// touching disk. Canonical must return a stable, comparable identifier for
// the same underlying file (used for include-cycle detection); ReadFile
// returns the file's raw contents.
type FileResolver interface {
	Canonical(path string) (string, error)
	ReadFile(path string) (string, error)
}

// DefineKind tags how a #define's trailing text was written.
type DefineKind int

const (
	DefineFlag DefineKind = iota
	DefineNumber
	DefineString
)

// Define is one active #define binding. Text is the literal substitution
// text spliced in wherever NAME appears as a whole identifier token.
type Define struct {
	Kind DefineKind
	Text string
}

// Context is the process-scoped state threaded through one top-level
// Preprocess call and all the #include files it recurses into: the file
// resolver, the active macro table, the include stack used for cycle
// detection, and the UUID-keyed table of every file's Code-Map.
type Context struct {
	Resolver FileResolver
	Defines  map[string]Define
	CodeMaps map[uuid.UUID]*codemap.CodeMap

	includeStack []string
}

// NewContext builds an empty Context over resolver.
func NewContext(resolver FileResolver) *Context {
	return &Context{
		Resolver: resolver,
		Defines:  make(map[string]Define),
		CodeMaps: make(map[uuid.UUID]*codemap.CodeMap),
	}
}

func (c *Context) pushInclude(canonical string) bool {
	for _, p := range c.includeStack {
		if p == canonical {
			return false
		}
	}
	c.includeStack = append(c.includeStack, canonical)
	return true
}

func (c *Context) popInclude() {
	c.includeStack = c.includeStack[:len(c.includeStack)-1]
}
