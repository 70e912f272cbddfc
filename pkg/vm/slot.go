package vm

// Slot is fixed-size storage for locals, arguments or static fields. Every
// position counts as one stack reference on the item it holds.
type Slot struct {
	items []StackItem
	rc    *ReferenceCounter
}

// NewSlot creates a slot of count positions, each holding Null.
func NewSlot(count int, rc *ReferenceCounter) *Slot {
	s := &Slot{items: make([]StackItem, count), rc: rc}
	for i := range s.items {
		s.items[i] = Null
		rc.AddStackReference(Null)
	}
	return s
}

// NewSlotFrom creates a slot holding items in order.
func NewSlotFrom(items []StackItem, rc *ReferenceCounter) *Slot {
	s := &Slot{items: append([]StackItem(nil), items...), rc: rc}
	for _, item := range s.items {
		rc.AddStackReference(item)
	}
	return s
}

func (s *Slot) Len() int {
	return len(s.items)
}

// Get returns the item at index.
func (s *Slot) Get(index int) StackItem {
	s.check("get", index)
	return s.items[index]
}

// Set replaces the item at index, moving the reference from the old item to the new one.
func (s *Slot) Set(index int, item StackItem) {
	s.check("set", index)
	s.rc.RemoveStackReference(s.items[index])
	s.items[index] = item
	s.rc.AddStackReference(item)
}

// ClearReferences drops the references of every position. The slot must not
// be used afterwards.
func (s *Slot) ClearReferences() {
	for _, item := range s.items {
		s.rc.RemoveStackReference(item)
	}
	s.items = nil
}

func (s *Slot) check(op string, index int) {
	if index < 0 || index >= len(s.items) {
		fail(op, index, len(s.items), ErrSlotIndex)
	}
}
