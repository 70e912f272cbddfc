package vm

import (
	"fmt"

	"vmctx/pkg/stack"
)

// ExecutionContext is one call frame. The script, evaluation stack, static
// fields and state registry live in a SharedStates bundle that derived
// frames may share; everything else belongs to this frame alone.
type ExecutionContext struct {
	shared *SharedStates

	InstructionPointer int   // index into the script
	RVCount            int   // return values expected by the caller; interpreted by the engine
	LocalVariables     *Slot // nil until InitSlots
	Arguments          *Slot // nil until InitSlots

	tryStack *stack.Stack[*ExceptionHandlingContext] // nil until the first EnterTry
	released bool
}

// NewExecutionContext creates a root frame over script with a fresh
// evaluation stack bound to rc, no static fields and an empty state registry.
func NewExecutionContext(script *Script, rc *ReferenceCounter) *ExecutionContext {
	return &ExecutionContext{shared: newSharedStates(script, rc)}
}

// Clone derives a frame that shares this frame's SharedStates and starts at
// ip. Private fields start empty.
func (c *ExecutionContext) Clone(ip int) (*ExecutionContext, error) {
	if err := checkPosition(c.shared.script, ip); err != nil {
		return nil, err
	}

	c.shared.holders++
	return &ExecutionContext{shared: c.shared, InstructionPointer: ip}, nil
}

// CloneIsolated derives a frame over script with its own SharedStates,
// reporting to the same reference counter as this frame.
func (c *ExecutionContext) CloneIsolated(script *Script, ip int) (*ExecutionContext, error) {
	if err := checkPosition(script, ip); err != nil {
		return nil, err
	}

	ctx := NewExecutionContext(script, c.shared.evaluationStack.rc)
	ctx.InstructionPointer = ip
	return ctx, nil
}

func (c *ExecutionContext) SharedStates() *SharedStates {
	return c.shared
}

func (c *ExecutionContext) Script() *Script {
	return c.shared.script
}

func (c *ExecutionContext) EvaluationStack() *EvaluationStack {
	return c.shared.evaluationStack
}

func (c *ExecutionContext) StaticFields() *Slot {
	return c.shared.staticFields
}

// SetStaticFields installs the chain's static field slot, releasing the previous one.
func (c *ExecutionContext) SetStaticFields(s *Slot) {
	if c.shared.staticFields != nil {
		c.shared.staticFields.ClearReferences()
	}
	c.shared.staticFields = s
}

// Peek, Push, Pop and Remove operate on the chain's evaluation stack.

func (c *ExecutionContext) Peek(index int) StackItem {
	return c.shared.evaluationStack.Peek(index)
}

func (c *ExecutionContext) Push(item StackItem) {
	c.shared.evaluationStack.Push(item)
}

func (c *ExecutionContext) Pop() StackItem {
	return c.shared.evaluationStack.Pop()
}

func (c *ExecutionContext) Remove(index int) StackItem {
	return c.shared.evaluationStack.Remove(index)
}

// InitSlots allocates the frame's locals, filled with Null, and its
// arguments, popped from the evaluation stack so that argument 0 is the
// item that was on top. Slots from an earlier call are released first.
func (c *ExecutionContext) InitSlots(localCount, argCount int) {
	if argCount > c.shared.evaluationStack.Len() {
		fail("init slots", argCount, c.shared.evaluationStack.Len(), ErrStackUnderflow)
	}
	c.releaseSlots()

	rc := c.shared.evaluationStack.rc
	if localCount > 0 {
		c.LocalVariables = NewSlot(localCount, rc)
	}
	if argCount > 0 {
		args := make([]StackItem, argCount)
		for i := range args {
			args[i] = c.Pop()
		}
		c.Arguments = NewSlotFrom(args, rc)
	}
}

// MoveNext advances the instruction pointer, wrapping to 0 past the end of the script.
func (c *ExecutionContext) MoveNext() {
	c.InstructionPointer++

	if c.InstructionPointer >= c.shared.script.Len() {
		c.InstructionPointer = 0
	}
}

// Jump sets the instruction pointer to pos.
func (c *ExecutionContext) Jump(pos int) error {
	if err := checkPosition(c.shared.script, pos); err != nil {
		return err
	}

	c.InstructionPointer = pos
	return nil
}

// CurrentInstruction returns the byte at the instruction pointer; ok is false for an empty script.
func (c *ExecutionContext) CurrentInstruction() (op byte, ok bool) {
	if c.shared.script.Len() == 0 {
		return 0, false
	}

	return c.shared.script.At(c.InstructionPointer), true
}

// EnterTry pushes a try region onto this frame's try stack.
func (c *ExecutionContext) EnterTry(h *ExceptionHandlingContext) {
	if c.tryStack == nil {
		c.tryStack = stack.NewStack[*ExceptionHandlingContext]()
	}
	c.tryStack.Push(h)
}

// ExitTry pops the innermost try region.
func (c *ExecutionContext) ExitTry() (*ExceptionHandlingContext, error) {
	if c.tryStack == nil {
		return nil, ErrEmptyTryStack
	}

	h, ok := c.tryStack.Pop()
	if !ok {
		return nil, ErrEmptyTryStack
	}
	return h, nil
}

// CurrentTry returns the innermost try region without removing it.
func (c *ExecutionContext) CurrentTry() (*ExceptionHandlingContext, bool) {
	if c.tryStack == nil {
		return nil, false
	}
	return c.tryStack.Peek()
}

// TryStack returns the active try regions, outermost first, or nil if the
// frame never entered one.
func (c *ExecutionContext) TryStack() []*ExceptionHandlingContext {
	if c.tryStack == nil {
		return nil
	}
	return append([]*ExceptionHandlingContext(nil), c.tryStack.Array()...)
}

// Release drops this frame's hold on its SharedStates and the references of
// its private slots. It reports whether this was the last frame of the
// chain; in that case the static fields are released and any items left on
// the evaluation stack are popped. Calls after the first do nothing and
// return false.
func (c *ExecutionContext) Release() (last bool) {
	if c.released {
		return false
	}
	c.released = true

	c.releaseSlots()
	c.tryStack = nil

	c.shared.holders--
	if c.shared.holders > 0 {
		return false
	}

	c.shared.evaluationStack.Clear()
	if c.shared.staticFields != nil {
		c.shared.staticFields.ClearReferences()
		c.shared.staticFields = nil
	}
	return true
}

func (c *ExecutionContext) releaseSlots() {
	if c.LocalVariables != nil {
		c.LocalVariables.ClearReferences()
		c.LocalVariables = nil
	}
	if c.Arguments != nil {
		c.Arguments.ClearReferences()
		c.Arguments = nil
	}
}

func checkPosition(script *Script, pos int) error {
	if pos == 0 || (pos > 0 && pos < script.Len()) {
		return nil
	}
	return fmt.Errorf("%w: %d not in [0, %d)", ErrJumpOutOfRange, pos, script.Len())
}
