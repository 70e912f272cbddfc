package vm_test

import (
	"testing"

	"vmctx/pkg/vm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionContextWalkthrough(t *testing.T) {
	rc := vm.NewReferenceCounter()
	ctx := vm.NewExecutionContext(vm.NewScript([]byte{0, 1, 2, 3, 4}), rc)
	require.Equal(t, 0, ctx.InstructionPointer)
	assert.Equal(t, 0, ctx.RVCount)
	assert.Nil(t, ctx.LocalVariables)
	assert.Nil(t, ctx.Arguments)
	assert.Nil(t, ctx.StaticFields())
	assert.Nil(t, ctx.TryStack())

	a, b := vm.NewInteger(1), vm.NewInteger(2)
	ctx.Push(a)
	assert.Equal(t, 1, ctx.EvaluationStack().Len())
	assert.Equal(t, 1, rc.References(a))

	ctx.Push(b)
	assert.Equal(t, 2, ctx.EvaluationStack().Len())
	assert.Same(t, b, ctx.Peek(0))

	assert.Same(t, b, ctx.Pop())
	assert.Equal(t, 0, rc.References(b))
	assert.Equal(t, 1, ctx.EvaluationStack().Len())

	var seen []int
	for range 5 {
		ctx.MoveNext()
		seen = append(seen, ctx.InstructionPointer)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 0}, seen)
}

func TestMoveNextWrapsAround(t *testing.T) {
	for _, length := range []int{1, 2, 7} {
		ctx := vm.NewExecutionContext(vm.NewScript(make([]byte, length)), vm.NewReferenceCounter())

		require.NoError(t, ctx.Jump(length-1))
		ctx.MoveNext()
		assert.Equal(t, 0, ctx.InstructionPointer, "length %d", length)

		for range length {
			ctx.MoveNext()
		}
		assert.Equal(t, 0, ctx.InstructionPointer, "length %d", length)
	}

	empty := vm.NewExecutionContext(vm.NewScript(nil), vm.NewReferenceCounter())
	empty.MoveNext()
	assert.Equal(t, 0, empty.InstructionPointer)
	_, ok := empty.CurrentInstruction()
	assert.False(t, ok)
}

func TestJumpAndCurrentInstruction(t *testing.T) {
	ctx := vm.NewExecutionContext(vm.NewScript([]byte{0xa0, 0xa1, 0xa2}), vm.NewReferenceCounter())

	require.NoError(t, ctx.Jump(2))
	op, ok := ctx.CurrentInstruction()
	require.True(t, ok)
	assert.Equal(t, byte(0xa2), op)

	assert.ErrorIs(t, ctx.Jump(3), vm.ErrJumpOutOfRange)
	assert.ErrorIs(t, ctx.Jump(-1), vm.ErrJumpOutOfRange)
	assert.Equal(t, 2, ctx.InstructionPointer)
}

func TestCloneSharesState(t *testing.T) {
	rc := vm.NewReferenceCounter()
	script := vm.NewScript([]byte{0, 1, 2, 3})
	caller := vm.NewExecutionContext(script, rc)
	caller.InstructionPointer = 1
	caller.RVCount = 3
	caller.EnterTry(vm.NewExceptionHandlingContext(2, -1))
	caller.SetStaticFields(vm.NewSlot(1, rc))

	callee, err := caller.Clone(3)
	require.NoError(t, err)

	assert.Same(t, caller.SharedStates(), callee.SharedStates())
	assert.Same(t, caller.EvaluationStack(), callee.EvaluationStack())
	assert.Same(t, caller.StaticFields(), callee.StaticFields())
	assert.Same(t, script, callee.Script())
	assert.Equal(t, 2, caller.SharedStates().Holders())

	assert.Equal(t, 3, callee.InstructionPointer)
	assert.Equal(t, 0, callee.RVCount)
	assert.Nil(t, callee.TryStack(), "try regions never cross a call")
	assert.Len(t, caller.TryStack(), 1)

	x := vm.NewInteger(5)
	callee.Push(x)
	assert.Same(t, x, caller.Peek(0))

	callee.MoveNext()
	assert.Equal(t, 0, callee.InstructionPointer)
	assert.Equal(t, 1, caller.InstructionPointer)

	_, err = caller.Clone(4)
	assert.ErrorIs(t, err, vm.ErrJumpOutOfRange)
	assert.Equal(t, 2, caller.SharedStates().Holders())
}

func TestCloneIsolated(t *testing.T) {
	rc := vm.NewReferenceCounter()
	caller := vm.NewExecutionContext(vm.NewScript([]byte{0}), rc)
	caller.Push(vm.NewInteger(1))

	other := vm.NewScript([]byte{9, 9})
	callee, err := caller.CloneIsolated(other, 1)
	require.NoError(t, err)

	assert.NotSame(t, caller.SharedStates(), callee.SharedStates())
	assert.NotEqual(t, caller.SharedStates().ID(), callee.SharedStates().ID())
	assert.Same(t, other, callee.Script())
	assert.Equal(t, 0, callee.EvaluationStack().Len())
	assert.Same(t, rc, callee.EvaluationStack().ReferenceCounter())
	assert.Equal(t, 1, caller.SharedStates().Holders())
	assert.Equal(t, 1, callee.InstructionPointer)
}

func TestTryStackIsPrivate(t *testing.T) {
	ctx := vm.NewExecutionContext(vm.NewScript([]byte{0, 0}), vm.NewReferenceCounter())
	peer, err := ctx.Clone(0)
	require.NoError(t, err)

	_, err = ctx.ExitTry()
	assert.ErrorIs(t, err, vm.ErrEmptyTryStack)

	outer := vm.NewExceptionHandlingContext(1, -1)
	inner := vm.NewExceptionHandlingContext(-1, 1)
	ctx.EnterTry(outer)
	ctx.EnterTry(inner)
	peer.EnterTry(vm.NewExceptionHandlingContext(0, 0))

	assert.Equal(t, []*vm.ExceptionHandlingContext{outer, inner}, ctx.TryStack())
	assert.Len(t, peer.TryStack(), 1)

	cur, ok := ctx.CurrentTry()
	require.True(t, ok)
	assert.Same(t, inner, cur)
	assert.False(t, cur.HasCatch())
	assert.True(t, cur.HasFinally())

	got, err := ctx.ExitTry()
	require.NoError(t, err)
	assert.Same(t, inner, got)
	got, err = ctx.ExitTry()
	require.NoError(t, err)
	assert.Same(t, outer, got)
	_, err = ctx.ExitTry()
	assert.ErrorIs(t, err, vm.ErrEmptyTryStack)

	_, ok = ctx.CurrentTry()
	assert.False(t, ok)
	assert.Len(t, peer.TryStack(), 1)
}

func TestInitSlots(t *testing.T) {
	rc := vm.NewReferenceCounter()
	ctx := vm.NewExecutionContext(vm.NewScript([]byte{0}), rc)
	first, second := vm.NewInteger(1), vm.NewInteger(2)
	ctx.Push(first)
	ctx.Push(second)

	ctx.InitSlots(2, 2)

	require.NotNil(t, ctx.LocalVariables)
	require.NotNil(t, ctx.Arguments)
	assert.Equal(t, 2, ctx.LocalVariables.Len())
	assert.Same(t, second, ctx.Arguments.Get(0))
	assert.Same(t, first, ctx.Arguments.Get(1))
	assert.Equal(t, 0, ctx.EvaluationStack().Len())
	assert.Equal(t, 1, rc.References(first))
	assert.Equal(t, 4, rc.Count())

	requireStackPanic(t, vm.ErrStackUnderflow, func() { ctx.InitSlots(0, 1) })
}

func TestRelease(t *testing.T) {
	rc := vm.NewReferenceCounter()
	root := vm.NewExecutionContext(vm.NewScript([]byte{0, 0}), rc)
	root.SetStaticFields(vm.NewSlot(2, rc))
	root.Push(vm.NewInteger(1))

	child, err := root.Clone(1)
	require.NoError(t, err)
	child.InitSlots(3, 1)
	child.Push(vm.NewInteger(2))

	assert.False(t, child.Release())
	assert.Nil(t, child.LocalVariables)
	assert.Equal(t, 1, root.EvaluationStack().Len(), "shared stack survives")
	assert.Equal(t, 3, rc.Count())

	assert.True(t, root.Release())
	assert.Equal(t, 0, root.EvaluationStack().Len())
	assert.Nil(t, root.StaticFields())
	assert.Equal(t, 0, rc.Count())
}

func TestSetStaticFieldsReleasesPrevious(t *testing.T) {
	rc := vm.NewReferenceCounter()
	ctx := vm.NewExecutionContext(vm.NewScript(nil), rc)

	ctx.SetStaticFields(vm.NewSlot(2, rc))
	ctx.SetStaticFields(vm.NewSlot(1, rc))

	assert.Equal(t, 1, ctx.StaticFields().Len())
	assert.Equal(t, 1, rc.Count())
}

func TestReleaseTwiceKeepsSharedState(t *testing.T) {
	rc := vm.NewReferenceCounter()
	root := vm.NewExecutionContext(vm.NewScript([]byte{0, 0}), rc)
	child, err := root.Clone(1)
	require.NoError(t, err)
	x := vm.NewInteger(3)
	root.Push(x)

	assert.False(t, child.Release())
	assert.False(t, child.Release())

	assert.Equal(t, 1, root.SharedStates().Holders())
	assert.Same(t, x, root.Peek(0))
	assert.Equal(t, 1, rc.References(x))

	assert.True(t, root.Release())
	assert.False(t, root.Release())
	assert.Equal(t, 0, root.SharedStates().Holders())
	assert.Equal(t, 0, rc.Count())
}

func TestInitSlotsAgainReleasesOldSlots(t *testing.T) {
	rc := vm.NewReferenceCounter()
	ctx := vm.NewExecutionContext(vm.NewScript([]byte{0}), rc)
	a := vm.NewInteger(1)
	ctx.Push(a)

	ctx.InitSlots(3, 1)
	assert.Equal(t, 4, rc.Count())

	b := vm.NewInteger(2)
	ctx.Push(b)
	ctx.InitSlots(1, 1)

	assert.Equal(t, 1, ctx.LocalVariables.Len())
	assert.Same(t, b, ctx.Arguments.Get(0))
	assert.Equal(t, 0, rc.References(a))
	assert.Equal(t, 2, rc.Count())

	ctx.InitSlots(0, 0)
	assert.Nil(t, ctx.LocalVariables)
	assert.Nil(t, ctx.Arguments)
	assert.Equal(t, 0, rc.Count())
}
