package vm

import (
	"fmt"

	"vmctx/pkg/stack"

	"github.com/charmbracelet/log"
)

// Engine owns the invocation stack of one script run. It creates, derives
// and unloads frames; it does not decode or execute instructions.
type Engine struct {
	rc         *ReferenceCounter
	invocation *stack.Stack[*ExecutionContext]
	results    *EvaluationStack // values left by the entry frame's chain

	logger   *log.Logger
	maxDepth int // 0 = unlimited
}

type Option func(*Engine)

// WithLogger sets the logger used for frame lifecycle events
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMaxDepth limits the number of frames on the invocation stack
func WithMaxDepth(n int) Option {
	return func(e *Engine) { e.maxDepth = n }
}

// NewEngine creates an engine whose frames report to rc. A nil rc gets a fresh counter.
func NewEngine(rc *ReferenceCounter, opts ...Option) *Engine {
	if rc == nil {
		rc = NewReferenceCounter()
	}

	e := &Engine{
		rc:         rc,
		invocation: stack.NewStack[*ExecutionContext](),
		results:    NewEvaluationStack(rc),
	}

	for _, o := range opts {
		o(e)
	}

	if e.logger == nil {
		e.logger = log.Default()
	}

	return e
}

func (e *Engine) ReferenceCounter() *ReferenceCounter {
	return e.rc
}

// ResultStack holds the values returned by the entry frame once it is unloaded.
func (e *Engine) ResultStack() *EvaluationStack {
	return e.results
}

// Depth returns the number of frames on the invocation stack
func (e *Engine) Depth() int {
	return e.invocation.Size()
}

// CurrentContext returns the executing frame, or nil if none
func (e *Engine) CurrentContext() *ExecutionContext {
	ctx, _ := e.invocation.Peek()
	return ctx
}

// EntryContext returns the bottom frame, or nil if none
func (e *Engine) EntryContext() *ExecutionContext {
	if e.invocation.Size() == 0 {
		return nil
	}
	return e.invocation.Array()[0]
}

// LoadScript pushes a new root frame over script with its own SharedStates.
func (e *Engine) LoadScript(script *Script, ip, rvCount int) (*ExecutionContext, error) {
	if err := checkPosition(script, ip); err != nil {
		return nil, err
	}

	ctx := NewExecutionContext(script, e.rc)
	ctx.InstructionPointer = ip
	ctx.RVCount = rvCount

	if err := e.load(ctx, "root"); err != nil {
		ctx.Release()
		return nil, err
	}
	return ctx, nil
}

// Call pushes a frame that shares the current frame's SharedStates and starts at ip.
func (e *Engine) Call(ip, rvCount int) (*ExecutionContext, error) {
	cur := e.CurrentContext()
	if cur == nil {
		return nil, ErrNoContext
	}

	ctx, err := cur.Clone(ip)
	if err != nil {
		return nil, fmt.Errorf("call: %w", err)
	}
	ctx.RVCount = rvCount

	if err := e.load(ctx, "shared"); err != nil {
		ctx.Release()
		return nil, err
	}
	return ctx, nil
}

// CallIsolated pushes a frame over script with a fresh SharedStates.
func (e *Engine) CallIsolated(script *Script, ip, rvCount int) (*ExecutionContext, error) {
	cur := e.CurrentContext()
	if cur == nil {
		return nil, ErrNoContext
	}

	ctx, err := cur.CloneIsolated(script, ip)
	if err != nil {
		return nil, fmt.Errorf("call: %w", err)
	}
	ctx.RVCount = rvCount

	if err := e.load(ctx, "isolated"); err != nil {
		ctx.Release()
		return nil, err
	}
	return ctx, nil
}

// Unload pops the current frame. Values left on the stack of a chain that is
// not the caller's are moved to the caller, or to the result stack when the
// entry frame is unloaded. The frame's hold on its SharedStates is then
// released.
func (e *Engine) Unload() (*ExecutionContext, error) {
	ctx, ok := e.invocation.Pop()
	if !ok {
		return nil, ErrNoContext
	}

	src := ctx.EvaluationStack()
	dst := e.results
	if caller := e.CurrentContext(); caller != nil {
		dst = caller.EvaluationStack()
	}

	if src != dst && (dst == e.results || ctx.SharedStates().Holders() == 1) {
		src.MoveTo(dst, src.Len())
	}

	chain := ctx.SharedStates().ID()
	left := src.Len()
	last := ctx.Release()
	if last && left > 0 {
		e.logger.Warn("Dropped values of released chain", "chain", chain, "count", left)
	}

	e.logger.Debug("Context unloaded", "chain", chain, "last", last, "depth", e.Depth())
	return ctx, nil
}

func (e *Engine) load(ctx *ExecutionContext, mode string) error {
	if e.maxDepth > 0 && e.invocation.Size() >= e.maxDepth {
		return fmt.Errorf("%w: %d", ErrMaxDepthExceeded, e.maxDepth)
	}

	e.invocation.Push(ctx)
	e.logger.Debug("Context loaded", "mode", mode, "chain", ctx.SharedStates().ID(), "ip", ctx.InstructionPointer, "depth", e.Depth())
	return nil
}
