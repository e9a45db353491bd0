package pattern

import "fmt"

// CompileError reports a structural problem in a pattern tree.
type CompileError struct {
	// Path locates the offending node, e.g. "all[1].repeat.any[0]".
	Path string
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("pattern error at %s: %s", e.Path, e.Msg)
}

func newCompileError(path, format string, args ...any) *CompileError {
	return &CompileError{Path: path, Msg: fmt.Sprintf(format, args...)}
}
