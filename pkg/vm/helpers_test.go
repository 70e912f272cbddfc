package vm_test

import (
	"testing"

	"vmctx/pkg/vm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireStackPanic runs fn and checks that it panics with a *vm.StackError wrapping target.
func requireStackPanic(t *testing.T, target error, fn func()) {
	t.Helper()

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()

	require.NotNil(t, recovered, "expected a panic")
	se, ok := recovered.(*vm.StackError)
	require.True(t, ok, "panic value %T is not *vm.StackError", recovered)
	assert.ErrorIs(t, se, target)
}

func ints(values ...int64) []vm.StackItem {
	items := make([]vm.StackItem, len(values))
	for i, v := range values {
		items[i] = vm.NewInteger(v)
	}
	return items
}
