package api

import "errors"

// ErrInvalidWireField is wrapped with context by the WireInstruction
// conversion helpers in models.go when a JSON field doesn't resolve to a
// value arm32 understands (an unknown opcode, register name, or enum
// string).
var ErrInvalidWireField = errors.New("api: invalid field in submitted instruction")
