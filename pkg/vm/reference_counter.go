package vm

// ReferenceCounter tracks how many stack and slot positions hold each item.
type ReferenceCounter struct {
	refs  map[StackItem]int
	count int
}

func NewReferenceCounter() *ReferenceCounter {
	return &ReferenceCounter{refs: make(map[StackItem]int)}
}

// AddStackReference records one more position holding item.
func (rc *ReferenceCounter) AddStackReference(item StackItem) {
	rc.refs[item]++
	rc.count++
}

// RemoveStackReference records that one position no longer holds item.
// It panics if item has no recorded references.
func (rc *ReferenceCounter) RemoveStackReference(item StackItem) {
	n := rc.refs[item]
	if n == 0 {
		fail("remove reference", -1, rc.count, ErrUnbalancedReference)
	}

	if n == 1 {
		delete(rc.refs, item)
	} else {
		rc.refs[item] = n - 1
	}
	rc.count--
}

// References returns the number of positions currently holding item.
func (rc *ReferenceCounter) References(item StackItem) int {
	return rc.refs[item]
}

// Count returns the total number of stack references across all items.
func (rc *ReferenceCounter) Count() int {
	return rc.count
}
