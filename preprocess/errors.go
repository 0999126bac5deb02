package preprocess

import "fmt"

// ParseError reports a malformed directive at a byte offset in the source
// that produced it, so callers can map it back through a Code-Map if the
// source in question is itself an expansion of another file.
type ParseError struct {
	Path   string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("preprocess: %s:%d: %s", e.Path, e.Offset, e.Msg)
}

// CycleError reports a #include cycle, naming the file that would have
// been entered a second time.
type CycleError struct {
	Path string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("preprocess: include cycle re-entering %s", e.Path)
}
