package shader

import (
	"errors"
	"fmt"
)

// ErrNoEntryPoint is wrapped by a CompileError when the source has no entry point for its stage.
var ErrNoEntryPoint = errors.New("no entry point for shader stage")

// ErrUnresolvedType is wrapped by a CompileError when a buffer binding names a type whose
// layout cannot be computed.
var ErrUnresolvedType = errors.New("unresolved binding type")

// CompileError reports a shader that could not be turned into a module. Log holds the
// full diagnostic text, the counterpart of a driver's shader info log.
type CompileError struct {
	Key   string
	Stage ShaderType
	Log   string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %q (%s): %s", e.Key, e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
