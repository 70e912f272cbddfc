package vm

import (
	"reflect"

	"github.com/google/uuid"
)

// SharedStates is the part of a frame visible to every frame of one call
// chain. Frames hold it by pointer; holders counts them.
type SharedStates struct {
	id              uuid.UUID
	script          *Script
	evaluationStack *EvaluationStack
	staticFields    *Slot
	states          map[reflect.Type]any
	holders         int
}

func newSharedStates(script *Script, rc *ReferenceCounter) *SharedStates {
	return &SharedStates{
		id:              uuid.New(),
		script:          script,
		evaluationStack: NewEvaluationStack(rc),
		states:          make(map[reflect.Type]any),
		holders:         1,
	}
}

// ID identifies the chain in logs.
func (s *SharedStates) ID() uuid.UUID {
	return s.id
}

func (s *SharedStates) Script() *Script {
	return s.script
}

func (s *SharedStates) EvaluationStack() *EvaluationStack {
	return s.evaluationStack
}

// StaticFields returns the static field slot, or nil if none was set.
func (s *SharedStates) StaticFields() *Slot {
	return s.staticFields
}

// Holders returns the number of live contexts sharing this bundle.
func (s *SharedStates) Holders() int {
	return s.holders
}
