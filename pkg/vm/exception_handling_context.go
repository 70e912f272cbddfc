package vm

type TryState int

const (
	TryStateTry TryState = iota
	TryStateCatch
	TryStateFinally
)

func (s TryState) String() string {
	switch s {
	case TryStateCatch:
		return "catch"
	case TryStateFinally:
		return "finally"
	default:
		return "try"
	}
}

// ExceptionHandlingContext is one active try region. The context only keeps
// these in order; matching and unwinding belong to the dispatcher.
type ExceptionHandlingContext struct {
	CatchPointer   int // -1 when the region has no catch block
	FinallyPointer int // -1 when the region has no finally block
	EndPointer     int // -1 until the region is left
	State          TryState
}

func NewExceptionHandlingContext(catchPointer, finallyPointer int) *ExceptionHandlingContext {
	return &ExceptionHandlingContext{
		CatchPointer:   catchPointer,
		FinallyPointer: finallyPointer,
		EndPointer:     -1,
		State:          TryStateTry,
	}
}

func (e *ExceptionHandlingContext) HasCatch() bool {
	return e.CatchPointer >= 0
}

func (e *ExceptionHandlingContext) HasFinally() bool {
	return e.FinallyPointer >= 0
}
