package task

import "fmt"

// ConstructorError reports that an algorithm could not be instantiated.
type ConstructorError struct {
	Task string
	Err  error
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("error instantiating the algorithm for %s: %v", e.Task, e.Err)
}

func (e *ConstructorError) Unwrap() error { return e.Err }

// TypeInferenceError reports that a file reference or raw value could not be
// matched to the type of the parameter it is bound to.
type TypeInferenceError struct {
	Task  string
	Param string
	Err   error
}

func (e *TypeInferenceError) Error() string {
	return fmt.Sprintf("error inferring the type of parameter %s for %s: %v", e.Param, e.Task, e.Err)
}

func (e *TypeInferenceError) Unwrap() error { return e.Err }

// ExecutionError reports that running a Task failed.
type ExecutionError struct {
	Task string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("error running the algorithm for %s: %v", e.Task, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ConstructorExtraParameterWarning is a recoverable condition: a file
// reference was passed as an option the constructor does not declare a type
// for. The reference reaches the algorithm undecoded.
type ConstructorExtraParameterWarning struct {
	Task   string
	Option string
}

func (w *ConstructorExtraParameterWarning) Error() string {
	return fmt.Sprintf("constructor for %s does not have an explicitly typed parameter %s", w.Task, w.Option)
}
