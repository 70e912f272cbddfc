package vm

import (
	"errors"
	"fmt"
)

var (
	ErrStackUnderflow      = errors.New("evaluation stack underflow")
	ErrIndexOutOfRange     = errors.New("stack index out of range")
	ErrSlotIndex           = errors.New("slot index out of range")
	ErrUnbalancedReference = errors.New("stack reference removed more times than it was added")
	ErrNoContext           = errors.New("invocation stack is empty")
	ErrEmptyTryStack       = errors.New("try stack is empty")
	ErrJumpOutOfRange      = errors.New("instruction pointer out of range")
	ErrInvalidScript       = errors.New("invalid script")
	ErrMaxDepthExceeded    = errors.New("maximum invocation depth exceeded")
)

// StackError is the panic value raised when a stack, slot or reference
// counter operation is called with an impossible argument.
type StackError struct {
	Op    string // operation that failed, e.g. "pop"
	Index int    // requested index, -1 when not applicable
	Depth int    // size of the container at the time of the call
	Err   error  // one of the sentinel errors above
}

func (e *StackError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v (depth %d)", e.Op, e.Err, e.Depth)
	}
	return fmt.Sprintf("%s(%d): %v (depth %d)", e.Op, e.Index, e.Err, e.Depth)
}

func (e *StackError) Unwrap() error {
	return e.Err
}

func fail(op string, index, depth int, err error) {
	panic(&StackError{Op: op, Index: index, Depth: depth, Err: err})
}
