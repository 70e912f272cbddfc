package vm

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Script is an immutable unit of bytecode. It is never modified after
// creation and may be shared by any number of contexts.
type Script struct {
	code []byte
}

// NewScript creates a script over a copy of code.
func NewScript(code []byte) *Script {
	return &Script{code: append([]byte(nil), code...)}
}

// ParseHexScript decodes a hex dump into a script. Whitespace and an
// optional 0x prefix are ignored.
func ParseHexScript(text string) (*Script, error) {
	text = strings.Join(strings.Fields(text), "")
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")

	code, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}

	return &Script{code: code}, nil
}

// Len returns the number of bytes in the script.
func (s *Script) Len() int {
	return len(s.code)
}

// At returns the byte at position i.
func (s *Script) At(i int) byte {
	return s.code[i]
}

// Bytes returns a copy of the bytecode, never nil.
func (s *Script) Bytes() []byte {
	return append(make([]byte, 0, len(s.code)), s.code...)
}

func (s *Script) String() string {
	return hex.EncodeToString(s.code)
}
