package ir

import "fmt"

// Mode is the ARM operating mode at the point of translation.
type Mode int

const (
	ModeARM Mode = iota
	ModeThumb
)

func (m Mode) String() string {
	if m == ModeThumb {
		return "Thumb"
	}
	return "ARM"
}

// TranslationContext is the read-only handle the lifter consumes: a mapping
// from architectural register names to long-lived IR variables, the current
// operating mode, and a source of fresh temporaries. It is owned externally;
// the lifter never mutates it beyond minting temps through the allocator it
// was handed.
type TranslationContext interface {
	// RegVar returns the long-lived Var handle for an architectural
	// register id (0-15 for R0-PC, plus the named PSRs via RegID constants
	// below).
	RegVar(reg RegID) Var

	// OperatingMode reports ARM or Thumb.
	OperatingMode() Mode

	// Temp mints a fresh width-bit temporary, scoped to the instruction
	// currently being translated.
	Temp(width int) Var
}

// RegID names an architectural register or special register the lifter can
// ask a TranslationContext for.
type RegID int

const (
	R0 RegID = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	SP
	LR
	PC
	CPSR
	SPSR
	FPSCR
)

func (r RegID) String() string {
	names := [...]string{
		"R0", "R1", "R2", "R3", "R4", "R5", "R6", "R7",
		"R8", "R9", "R10", "R11", "R12", "SP", "LR", "PC",
		"CPSR", "SPSR", "FPSCR",
	}
	if int(r) < len(names) {
		return names[r]
	}
	return "??"
}

// TempAllocator mints fresh temporary variables of a given width. It must be
// per-translation: sharing one across concurrent
// translations would collide temp ids in the emitted IR.
type TempAllocator struct {
	next int
}

// NewTempAllocator returns a fresh allocator starting at temp id 0.
func NewTempAllocator() *TempAllocator {
	return &TempAllocator{}
}

// New mints a fresh width-w temporary variable.
func (a *TempAllocator) New(width int) Var {
	v := Var{Name: fmt.Sprintf("t%d", a.next), Width: width}
	a.next++
	return v
}
