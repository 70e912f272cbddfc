package vm

import (
	"encoding/hex"
	"strconv"
)

type ItemType int

const (
	TypeAny ItemType = iota
	TypeBoolean
	TypeInteger
	TypeByteString
)

func (t ItemType) String() string {
	switch t {
	case TypeBoolean:
		return "Boolean"
	case TypeInteger:
		return "Integer"
	case TypeByteString:
		return "ByteString"
	default:
		return "Any"
	}
}

// StackItem is a value held by evaluation stacks and slots. Implementations
// must be comparable and compare by identity: the reference counter keys on
// the item itself, so two pushes of the same *Integer count twice against
// one entry while two distinct *Integer values with equal payloads do not.
type StackItem interface {
	Type() ItemType
	String() string
}

type nullItem struct{}

// Null is the single null item. Fresh slots are filled with it.
var Null StackItem = nullItem{}

func (nullItem) Type() ItemType { return TypeAny }
func (nullItem) String() string { return "null" }

// Boolean is a boolean stack item.
type Boolean struct {
	Value bool
}

func NewBoolean(b bool) *Boolean {
	return &Boolean{Value: b}
}

func (*Boolean) Type() ItemType { return TypeBoolean }

func (b *Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Integer is a 64-bit integer stack item.
type Integer struct {
	Value int64
}

func NewInteger(i int64) *Integer {
	return &Integer{Value: i}
}

func (*Integer) Type() ItemType { return TypeInteger }

func (i *Integer) String() string {
	return strconv.FormatInt(i.Value, 10)
}

// ByteString is an immutable byte sequence stack item.
type ByteString struct {
	Value []byte
}

func NewByteString(b []byte) *ByteString {
	return &ByteString{Value: append([]byte(nil), b...)}
}

func (*ByteString) Type() ItemType { return TypeByteString }

func (s *ByteString) String() string {
	return "0x" + hex.EncodeToString(s.Value)
}
