package vm

import "strings"

// EvaluationStack is the LIFO operand stack of a shared-state chain. Every
// change of membership goes through Push, Insert, Pop or Remove so that the
// bound ReferenceCounter sees exactly one update per occurrence.
type EvaluationStack struct {
	items []StackItem // bottom first
	rc    *ReferenceCounter
}

func NewEvaluationStack(rc *ReferenceCounter) *EvaluationStack {
	return &EvaluationStack{items: make([]StackItem, 0, 16), rc: rc}
}

// ReferenceCounter returns the counter the stack reports to.
func (s *EvaluationStack) ReferenceCounter() *ReferenceCounter {
	return s.rc
}

// Len returns the current depth.
func (s *EvaluationStack) Len() int {
	return len(s.items)
}

// Peek returns the item index positions below the top (0 is the top)
// without removing it.
func (s *EvaluationStack) Peek(index int) StackItem {
	return s.items[s.position("peek", index)]
}

// Push puts item on top of the stack.
func (s *EvaluationStack) Push(item StackItem) {
	s.items = append(s.items, item)
	s.rc.AddStackReference(item)
}

// Insert puts item at depth index, so that Peek(index) returns it. An index
// equal to Len places it at the bottom.
func (s *EvaluationStack) Insert(index int, item StackItem) {
	if index < 0 || index > len(s.items) {
		fail("insert", index, len(s.items), ErrIndexOutOfRange)
	}

	at := len(s.items) - index
	s.items = append(s.items, nil)
	copy(s.items[at+1:], s.items[at:])
	s.items[at] = item
	s.rc.AddStackReference(item)
}

// Pop removes and returns the top item.
func (s *EvaluationStack) Pop() StackItem {
	n := len(s.items)
	if n == 0 {
		fail("pop", -1, 0, ErrStackUnderflow)
	}

	item := s.items[n-1]
	s.items[n-1] = nil
	s.items = s.items[:n-1]
	s.rc.RemoveStackReference(item)
	return item
}

// Remove removes and returns the item at depth index, keeping the order of
// the others.
func (s *EvaluationStack) Remove(index int) StackItem {
	at := s.position("remove", index)

	item := s.items[at]
	copy(s.items[at:], s.items[at+1:])
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	s.rc.RemoveStackReference(item)
	return item
}

// Clear pops every item.
func (s *EvaluationStack) Clear() {
	for len(s.items) > 0 {
		s.Pop()
	}
}

// MoveTo pops the top n items and pushes them onto dst in their original
// order. Moving onto the same stack is a no-op.
func (s *EvaluationStack) MoveTo(dst *EvaluationStack, n int) {
	if n < 0 || n > len(s.items) {
		fail("move", n, len(s.items), ErrIndexOutOfRange)
	}
	if dst == s || n == 0 {
		return
	}

	moved := make([]StackItem, n)
	for i := n - 1; i >= 0; i-- {
		moved[i] = s.Pop()
	}
	for _, item := range moved {
		dst.Push(item)
	}
}

// Items returns a snapshot of the stack, bottom first.
func (s *EvaluationStack) Items() []StackItem {
	return append([]StackItem(nil), s.items...)
}

func (s *EvaluationStack) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range s.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (s *EvaluationStack) position(op string, index int) int {
	if index < 0 || index >= len(s.items) {
		fail(op, index, len(s.items), ErrIndexOutOfRange)
	}
	return len(s.items) - 1 - index
}
