package preprocess

import (
	"github.com/google/uuid"

	"github.com/z33-toolchain/z33/codemap"
	"github.com/z33-toolchain/z33/zlog"
)

// preprocessFile lexes, parses, and evaluates one file, recursing into its
// #include targets, and registers the resulting Code-Map under a fresh
// UUID in ctx.CodeMaps.
func preprocessFile(ctx *Context, path string) (uuid.UUID, error) {
	log := zlog.Component("preprocess")

	canon, err := ctx.Resolver.Canonical(path)
	if err != nil {
		return uuid.Nil, err
	}
	if !ctx.pushInclude(canon) {
		return uuid.Nil, &CycleError{Path: canon}
	}
	defer ctx.popInclude()

	src, err := ctx.Resolver.ReadFile(path)
	if err != nil {
		return uuid.Nil, err
	}

	arena, root, err := parseSource(path, src)
	if err != nil {
		return uuid.Nil, err
	}

	cm := codemap.NewCodeMap(src)
	if err := walk(ctx, path, cm, arena, root); err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	ctx.CodeMaps[id] = cm
	log.WithField("file", path).Debugf("preprocessed %d bytes -> %d bytes", len(src), len(cm.Modified))

	return id, nil
}

// Preprocess runs the full pipeline over the file at path, returning the
// Context (whose CodeMaps table holds every file touched, keyed by UUID)
// and the UUID of the top-level file's own Code-Map.
func Preprocess(resolver FileResolver, path string) (*Context, uuid.UUID, error) {
	ctx := NewContext(resolver)
	id, err := preprocessFile(ctx, path)
	if err != nil {
		return ctx, uuid.Nil, err
	}
	return ctx, id, nil
}

// Text is a convenience returning just the final expanded text of path.
func Text(resolver FileResolver, path string) (string, error) {
	ctx, id, err := Preprocess(resolver, path)
	if err != nil {
		return "", err
	}
	return ctx.CodeMaps[id].Modified, nil
}
