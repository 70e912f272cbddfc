package stack_test

import (
	"testing"

	"vmctx/pkg/stack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackLIFO(t *testing.T) {
	s := stack.NewStack(1, 2)
	s.Push(3)

	require.Equal(t, 3, s.Size())
	assert.Equal(t, []int{1, 2, 3}, s.Array())

	for _, want := range []int{3, 2, 1} {
		got, ok := s.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := s.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Size())
}

func TestStackPeekAndAt(t *testing.T) {
	s := stack.NewStack[string]()

	_, ok := s.Peek()
	assert.False(t, ok)

	s.Push("a")
	s.Push("b")

	top, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, "b", top)

	below, ok := s.At(1)
	require.True(t, ok)
	assert.Equal(t, "a", below)

	_, ok = s.At(2)
	assert.False(t, ok)
	_, ok = s.At(-1)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Size())
}
